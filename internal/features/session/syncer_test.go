package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyrain.ru/clicker/internal/features/economy"
)

// fakeWriter записывает каждую попытку UpdateUser.
type fakeWriter struct {
	mu      sync.Mutex
	updates []economy.Snapshot
	err     error
}

func (f *fakeWriter) UpdateUser(_ context.Context, _ string, balance, incomeRate, secondaryIncomeRate int64, buffUnlocked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, economy.Snapshot{
		Balance:             balance,
		IncomeRate:          incomeRate,
		SecondaryIncomeRate: secondaryIncomeRate,
		BuffUnlocked:        buffUnlocked,
	})
	return nil
}

func (f *fakeWriter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func TestSyncerPushReconciles(t *testing.T) {
	store := &fakeWriter{}

	var mu sync.Mutex
	var canonical economy.Snapshot
	s := NewSyncer(store, "alice", func(snap economy.Snapshot) {
		mu.Lock()
		canonical = snap
		mu.Unlock()
	})

	snap := economy.Snapshot{Balance: 42, IncomeRate: 2}
	s.Push(snap)
	s.Wait()

	assert.Equal(t, 1, store.count())
	mu.Lock()
	assert.Equal(t, snap, canonical)
	mu.Unlock()
}

func TestSyncerFlushError(t *testing.T) {
	store := &fakeWriter{err: errors.New("хранилище недоступно")}

	reconciled := false
	s := NewSyncer(store, "alice", func(economy.Snapshot) { reconciled = true })

	err := s.Flush(context.Background(), economy.Snapshot{Balance: 1})
	require.Error(t, err)

	// Неудачная запись не сверяется
	assert.False(t, reconciled)
}

func TestSyncerStaleResponseSkipped(t *testing.T) {
	store := &fakeWriter{}

	var mu sync.Mutex
	var canonical economy.Snapshot
	s := NewSyncer(store, "alice", func(snap economy.Snapshot) {
		mu.Lock()
		canonical = snap
		mu.Unlock()
	})

	older := economy.Snapshot{Balance: 10}
	newer := economy.Snapshot{Balance: 20}

	// Имитируем гонку ответов: ответ версии 2 приходит раньше версии 1
	require.NoError(t, s.write(context.Background(), 2, newer))
	require.NoError(t, s.write(context.Background(), 1, older))

	// Устаревший ответ не затирает более свежий канонический снапшот
	mu.Lock()
	assert.Equal(t, newer, canonical)
	mu.Unlock()
	assert.Equal(t, 2, store.count())
}

func TestSyncerVersionsMonotonic(t *testing.T) {
	store := &fakeWriter{}
	s := NewSyncer(store, "alice", nil)

	for i := 0; i < 5; i++ {
		s.Push(economy.Snapshot{Balance: int64(i)})
	}
	s.Wait()

	require.NoError(t, s.Flush(context.Background(), economy.Snapshot{Balance: 99}))

	s.mu.Lock()
	assert.Equal(t, uint64(6), s.nextVersion)
	assert.Equal(t, uint64(6), s.reconciled)
	s.mu.Unlock()

	assert.Equal(t, 6, store.count())
}
