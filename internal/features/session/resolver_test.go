package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyrain.ru/clicker/internal/userstore"
)

func TestResolve(t *testing.T) {
	users := []userstore.User{
		{ID: 1, Username: "alice", Balance: 100},
		{ID: 2, Username: "bob", Balance: 200},
	}

	found, ok := Resolve(users, "bob")
	require.True(t, ok)
	assert.Equal(t, int64(2), found.ID)
	assert.Equal(t, int64(200), found.Balance)
}

func TestResolveNotFound(t *testing.T) {
	users := []userstore.User{{ID: 1, Username: "alice"}}

	_, ok := Resolve(users, "carol")
	assert.False(t, ok)

	_, ok = Resolve(nil, "alice")
	assert.False(t, ok)
}

func TestResolveCaseSensitive(t *testing.T) {
	users := []userstore.User{{ID: 1, Username: "Alice"}}

	// Сравнение побайтовое, регистр важен
	_, ok := Resolve(users, "alice")
	assert.False(t, ok)

	_, ok = Resolve(users, "Alice")
	assert.True(t, ok)
}

func TestResolveFirstMatchWins(t *testing.T) {
	users := []userstore.User{
		{ID: 1, Username: "alice", Balance: 10},
		{ID: 2, Username: "alice", Balance: 20},
	}

	found, ok := Resolve(users, "alice")
	require.True(t, ok)
	assert.Equal(t, int64(1), found.ID)
}
