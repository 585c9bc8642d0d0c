package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/colortab/internal/db"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, db.Migrate(d))
	s := NewStore(d)
	s.cost = bcrypt.MinCost
	return s
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u, err := s.Create(ctx, "  player_one ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "player_one", u.Username)
	assert.NotEmpty(t, u.ID)

	got, err := s.Authenticate(ctx, "PLAYER_ONE", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.CreatedAt, got.CreatedAt)

	_, err = s.Authenticate(ctx, "player_one", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate(ctx, "nobody", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	byID, err := s.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "player_one", byID.Username)
	_, err = s.ByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_Duplicate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, err := s.Create(ctx, "ann", "password1")
	require.NoError(t, err)
	_, err = s.Create(ctx, "ANN", "password2")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestValidateSignup(t *testing.T) {
	cases := []struct {
		user, pass string
		ok         bool
	}{
		{"ann", "password", true},
		{"an", "password", false},
		{"this_name_is_far_too_long", "password", false},
		{"bad name", "password", false},
		{"ann", "short", false},
	}
	for _, c := range cases {
		err := ValidateSignup(c.user, c.pass)
		if c.ok {
			assert.NoError(t, err, c.user)
		} else {
			assert.Error(t, err, c.user)
		}
	}
}
