package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFake_FiresInDueOrder(t *testing.T) {
	c := NewFake()
	var got []string
	c.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	c.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	c.AfterFunc(200*time.Millisecond, func() { got = append(got, "b") })

	c.Advance(150 * time.Millisecond)
	assert.Equal(t, []string{"a"}, got)

	c.Advance(150 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, c.Pending())
}

func TestFake_TiesKeepScheduleOrder(t *testing.T) {
	c := NewFake()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		c.AfterFunc(time.Second, func() { got = append(got, i) })
	}
	c.Advance(time.Second)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestFake_NestedScheduling(t *testing.T) {
	c := NewFake()
	start := c.Now()
	var firedAt []time.Duration
	c.AfterFunc(100*time.Millisecond, func() {
		firedAt = append(firedAt, c.Now().Sub(start))
		c.AfterFunc(100*time.Millisecond, func() {
			firedAt = append(firedAt, c.Now().Sub(start))
		})
	})

	c.Advance(time.Second)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, firedAt)
	assert.Equal(t, start.Add(time.Second), c.Now())
}

func TestFake_Stop(t *testing.T) {
	c := NewFake()
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop(), "second stop is a no-op")
	c.Advance(2 * time.Second)
	assert.False(t, fired)

	tm = c.AfterFunc(time.Second, func() { fired = true })
	c.Advance(time.Second)
	assert.True(t, fired)
	assert.False(t, tm.Stop(), "stop after firing reports false")
}

func TestReal_AfterFunc(t *testing.T) {
	var n atomic.Int32
	done := make(chan struct{})
	NewReal().AfterFunc(5*time.Millisecond, func() {
		n.Add(1)
		close(done)
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "real timer did not fire")
	}
	assert.Equal(t, int32(1), n.Load())
}
