package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/robalobadob/colortab/internal/game"
)

func TestDateKey_UTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2025, 3, 2, 5, 0, 0, 0, loc) // 1 March 19:00 UTC
	assert.Equal(t, "2025-03-01", DateKey(local))
}

func TestSeed_StableWithinDay(t *testing.T) {
	morning := time.Date(2025, 6, 1, 0, 0, 1, 0, time.UTC)
	night := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, Seed(morning, "salt"), Seed(night, "salt"))
	assert.GreaterOrEqual(t, Seed(morning, "salt"), int64(0))
}

func TestSeed_VariesByDateAndSalt(t *testing.T) {
	d1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	assert.NotEqual(t, Seed(d1, "salt"), Seed(d2, "salt"))
	assert.NotEqual(t, Seed(d1, "salt"), Seed(d1, "pepper"))
}

func TestPicker_SameSequenceForEveryone(t *testing.T) {
	day := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	a := game.NewEngine(Picker(day, "salt"))
	b := game.NewEngine(Picker(day.Add(3*time.Hour), "salt"))
	a.StartNewGame()
	b.StartNewGame()
	for i := 0; i < 20; i++ {
		a.AdvanceRound()
		b.AdvanceRound()
	}
	assert.Equal(t, a.Sequence(), b.Sequence())
}
