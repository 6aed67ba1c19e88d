package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyrain.ru/clicker/internal/common"
	"moneyrain.ru/clicker/internal/config"
	"moneyrain.ru/clicker/internal/features/economy"
	"moneyrain.ru/clicker/internal/userstore"
)

func testConfig() *config.Config {
	return &config.Config{
		EconomyStartingBalance: 0,
		EconomyStartingIncome:  1,
		ShopItem1Cost:          100,
		ShopItem1CostScale:     2,
		ShopItem2Cost:          2000,
		ShopItem2CostScale:     100,
		ShopItem2Multiplier:    10,
		BuffTriggerPurchases:   3,
		BuffDurationTicks:      60,
		BuffTickInterval:       time.Hour, // тесты тикают вручную
		BuffIncomeMultiplier:   2,
	}
}

// fakeStore — хранилище в памяти для тестов контейнера.
// Записи применяются к списку пользователей, как в настоящем
// хранилище: следующий логин увидит сохранённую четвёрку.
type fakeStore struct {
	fakeWriter
	users   []userstore.User
	listErr error
}

func (f *fakeStore) ListUsers(_ context.Context) ([]userstore.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]userstore.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeStore) UpdateUser(ctx context.Context, username string, balance, incomeRate, secondaryIncomeRate int64, buffUnlocked bool) error {
	if err := f.fakeWriter.UpdateUser(ctx, username, balance, incomeRate, secondaryIncomeRate, buffUnlocked); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].Username == username {
			f.users[i].Balance = balance
			f.users[i].IncomeRate = incomeRate
			f.users[i].SecondaryIncomeRate = secondaryIncomeRate
			f.users[i].BuffUnlocked = buffUnlocked
		}
	}
	return nil
}

func (f *fakeStore) lastUpdate(t *testing.T) economy.Snapshot {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.updates)
	return f.updates[len(f.updates)-1]
}

func newTestManager(store *fakeStore) *Manager {
	return NewManager(store, testConfig())
}

func TestLoginSeedsSession(t *testing.T) {
	store := &fakeStore{users: []userstore.User{
		{ID: 1, Username: "alice", Balance: 500, IncomeRate: 3, SecondaryIncomeRate: 7, BuffUnlocked: true},
	}}
	m := newTestManager(store)

	sess, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)
	defer m.Logout(context.Background())

	want := economy.Snapshot{Balance: 500, IncomeRate: 3, SecondaryIncomeRate: 7, BuffUnlocked: true}
	assert.Equal(t, want, sess.Snapshot())
	assert.Equal(t, want, m.CanonicalSnapshot())
	assert.Same(t, sess, m.Current())

	// Засев — тоже изменение: сразу уходит write-through
	sess.syncer.Wait()
	assert.Equal(t, want, store.lastUpdate(t))
}

func TestLoginUserNotFound(t *testing.T) {
	store := &fakeStore{users: []userstore.User{{ID: 1, Username: "alice"}}}
	m := newTestManager(store)

	_, err := m.Login(context.Background(), "bob")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
	assert.Nil(t, m.Current())
}

func TestLoginStoreError(t *testing.T) {
	store := &fakeStore{listErr: errors.New("хранилище недоступно")}
	m := newTestManager(store)

	_, err := m.Login(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrUserNotFound)
	assert.Nil(t, m.Current())
}

func TestLoginRepairsZeroIncome(t *testing.T) {
	store := &fakeStore{users: []userstore.User{
		{ID: 1, Username: "alice", Balance: 10, IncomeRate: 0},
	}}
	m := newTestManager(store)

	sess, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)
	defer m.Logout(context.Background())

	assert.Equal(t, int64(1), sess.Snapshot().IncomeRate)
}

func TestLoginReplacesActiveSession(t *testing.T) {
	store := &fakeStore{users: []userstore.User{
		{ID: 1, Username: "alice", Balance: 100, IncomeRate: 1},
		{ID: 2, Username: "bob", Balance: 200, IncomeRate: 2},
	}}
	m := newTestManager(store)

	first, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)
	first.Click()

	second, err := m.Login(context.Background(), "bob")
	require.NoError(t, err)
	defer m.Logout(context.Background())

	assert.NotSame(t, first, second)
	assert.Same(t, second, m.Current())
	assert.Equal(t, "bob", second.Username())

	// Предыдущая сессия корректно остановлена: её прогресс сохранён
	store.mu.Lock()
	aliceBalance := store.users[0].Balance
	store.mu.Unlock()
	assert.Equal(t, int64(101), aliceBalance)
	assert.False(t, first.rain.Active())
}

func TestClickAccruesIncome(t *testing.T) {
	store := &fakeStore{users: []userstore.User{
		{ID: 1, Username: "alice", Balance: 0, IncomeRate: 3},
	}}
	m := newTestManager(store)

	sess, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)
	defer m.Logout(context.Background())

	res := sess.Click()
	assert.Equal(t, int64(3), res.Balance)
	assert.Equal(t, int64(3), res.EffectiveIncome)

	res = sess.Click()
	assert.Equal(t, int64(6), res.Balance)

	// Каждый клик — write-through; после сверки снапшот канонический
	sess.syncer.Wait()
	assert.Equal(t, int64(6), m.CanonicalSnapshot().Balance)
	assert.Equal(t, int64(6), store.lastUpdate(t).Balance)
}

func TestBuffOverridesIncomeAndFreezesShop(t *testing.T) {
	store := &fakeStore{users: []userstore.User{
		{ID: 1, Username: "alice", Balance: 1_000_000, IncomeRate: 4},
	}}
	m := newTestManager(store)

	sess, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)
	defer m.Logout(context.Background())

	// Три «Апгрейда» подряд: доход 4 → 7, третья покупка запускает дождь
	for i := 0; i < 3; i++ {
		view := sess.Purchase(economy.ItemUpgrade)
		require.True(t, view.Applied)
	}

	view := sess.View()
	require.True(t, view.Buff.Active)
	assert.Equal(t, int64(7), view.Buff.BaseIncome)
	assert.Equal(t, int64(14), view.EffectiveIncome)
	assert.Equal(t, 60, view.Buff.RemainingTicks)

	// Клик во время дождя начисляет доход баффа
	balanceBefore := sess.Snapshot().Balance
	res := sess.Click()
	assert.Equal(t, int64(14), res.EffectiveIncome)
	assert.Equal(t, balanceBefore+14, res.Balance)

	// Магазин заморожен независимо от баланса
	frozen := sess.Purchase(economy.ItemUpgrade)
	assert.False(t, frozen.Applied)

	// После принудительной остановки дождя доход снова обычный
	sess.rain.Deactivate()
	res = sess.Click()
	assert.Equal(t, int64(7), res.EffectiveIncome)
}

func TestRejectedPurchaseNotPushed(t *testing.T) {
	store := &fakeStore{users: []userstore.User{
		{ID: 1, Username: "alice", Balance: 50, IncomeRate: 1},
	}}
	m := newTestManager(store)

	sess, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)
	defer m.Logout(context.Background())

	sess.syncer.Wait()
	before := store.count()

	// Недостаточно монет — отказ не порождает записи
	view := sess.Purchase(economy.ItemUpgrade)
	assert.False(t, view.Applied)

	sess.syncer.Wait()
	assert.Equal(t, before, store.count())
}

func TestLogout(t *testing.T) {
	store := &fakeStore{users: []userstore.User{
		{ID: 1, Username: "alice", Balance: 100, IncomeRate: 1},
	}}
	m := newTestManager(store)

	sess, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)
	sess.Click()

	require.NoError(t, m.Logout(context.Background()))

	// Финальная запись несёт последнюю четвёрку
	assert.Equal(t, int64(101), store.lastUpdate(t).Balance)

	// Контейнер разлогинен, снапшот сброшен к дефолтам
	assert.Nil(t, m.Current())
	assert.Equal(t, economy.DefaultSnapshot(testConfig()), m.CanonicalSnapshot())

	// Повторный логаут — ошибка отсутствия сессии
	assert.ErrorIs(t, m.Logout(context.Background()), common.ErrNoActiveSession)
}

func TestLogoutStopsBuff(t *testing.T) {
	store := &fakeStore{users: []userstore.User{
		{ID: 1, Username: "alice", Balance: 1_000_000, IncomeRate: 1},
	}}
	m := newTestManager(store)

	sess, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.True(t, sess.Purchase(economy.ItemUpgrade).Applied)
	}
	require.True(t, sess.rain.Active())

	require.NoError(t, m.Logout(context.Background()))

	// Тикер погашен, дождь не переживает сессию
	assert.False(t, sess.rain.Active())
}

func TestClickAccruesWhileBuffExpires(t *testing.T) {
	cfg := testConfig()
	cfg.BuffDurationTicks = 1
	cfg.BuffTickInterval = time.Microsecond

	syncer := NewSyncer(&fakeWriter{}, "alice", nil)
	sess := newSession("alice", economy.Snapshot{Balance: 0, IncomeRate: 3}, cfg, syncer)
	defer sess.rain.Deactivate()

	// Дождь на один тик истекает в своей горутине, пока идут клики.
	// Клик обязан начислить либо обычный доход, либо доход дождя —
	// никогда ноль.
	var expected int64
	for i := 0; i < 300; i++ {
		sess.rain.Activate(3)
		res := sess.Click()
		require.Contains(t, []int64{3, 6}, res.EffectiveIncome, "итерация %d", i)
		expected += res.EffectiveIncome
		require.Equal(t, expected, res.Balance)
	}
	syncer.Wait()
}

func TestConcurrentClicksReconcileInOrder(t *testing.T) {
	store := &fakeStore{users: []userstore.User{
		{ID: 1, Username: "alice", Balance: 0, IncomeRate: 1},
	}}
	m := newTestManager(store)

	sess, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)
	defer m.Logout(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				sess.Click()
			}
		}()
	}
	wg.Wait()
	sess.syncer.Wait()

	// Версии выдаются в порядке фиксации: сверка выбирает итоговое
	// состояние, а не какой-то промежуточный снапшот
	final := sess.Snapshot()
	assert.Equal(t, int64(400), final.Balance)
	assert.Equal(t, final, m.CanonicalSnapshot())
}

// gatedStore задерживает все записи, пока тест не откроет release.
type gatedStore struct {
	fakeStore
	release chan struct{}
}

func (g *gatedStore) UpdateUser(ctx context.Context, username string, balance, incomeRate, secondaryIncomeRate int64, buffUnlocked bool) error {
	<-g.release
	return g.fakeStore.UpdateUser(ctx, username, balance, incomeRate, secondaryIncomeRate, buffUnlocked)
}

func TestLogoutFlushLandsLast(t *testing.T) {
	store := &gatedStore{
		fakeStore: fakeStore{users: []userstore.User{
			{ID: 1, Username: "alice", Balance: 0, IncomeRate: 1},
		}},
		release: make(chan struct{}),
	}
	m := NewManager(store, testConfig())

	sess, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)

	sess.Click() // асинхронная запись висит в полёте

	done := make(chan error, 1)
	go func() { done <- m.Logout(context.Background()) }()

	// Логаут обязан дождаться записей в полёте перед финальным сбросом
	select {
	case <-done:
		t.Fatal("логаут завершился, не дождавшись записей в полёте")
	case <-time.After(30 * time.Millisecond):
	}

	close(store.release)
	require.NoError(t, <-done)

	// Финальная запись приземлилась последней и несёт итоговую четвёрку
	assert.Equal(t, 3, store.count()) // засев, клик, финальный сброс
	assert.Equal(t, int64(1), store.lastUpdate(t).Balance)
}

func TestLogoutThenLoginRestoresQuadruple(t *testing.T) {
	store := &fakeStore{users: []userstore.User{
		{ID: 1, Username: "alice", Balance: 150, IncomeRate: 1, SecondaryIncomeRate: 7, BuffUnlocked: true},
	}}
	m := newTestManager(store)

	sess, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)

	sess.Click()
	require.True(t, sess.Purchase(economy.ItemUpgrade).Applied)
	saved := sess.Snapshot()
	require.NoError(t, m.Logout(context.Background()))

	// Повторный логин без покупок воспроизводит сохранённую четвёрку
	again, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)
	defer m.Logout(context.Background())

	assert.Equal(t, saved, again.Snapshot())
	assert.Equal(t, economy.Snapshot{
		Balance:             51,
		IncomeRate:          2,
		SecondaryIncomeRate: 7,
		BuffUnlocked:        true,
	}, again.Snapshot())

	// Транзиентное не переживает сессию: цены к дефолтам, счётчик в 0
	view := again.View()
	assert.Equal(t, int64(100), view.Shop[0].Cost)
	assert.Equal(t, 0, view.Counter)
}

func TestConcurrentLoginsSerialized(t *testing.T) {
	store := &fakeStore{users: []userstore.User{
		{ID: 1, Username: "alice", Balance: 0, IncomeRate: 1},
		{ID: 2, Username: "bob", Balance: 0, IncomeRate: 1},
	}}
	m := newTestManager(store)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		name := "alice"
		if i%2 == 1 {
			name = "bob"
		}
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			_, err := m.Login(context.Background(), n)
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	// Смена сессии сериализована: ровно одна активная и она работоспособна
	sess := m.Current()
	require.NotNil(t, sess)
	res := sess.Click()
	assert.Equal(t, int64(1), res.EffectiveIncome)

	require.NoError(t, m.Logout(context.Background()))
	assert.Nil(t, m.Current())
}

func TestFlushActive(t *testing.T) {
	store := &fakeStore{users: []userstore.User{
		{ID: 1, Username: "alice", Balance: 5, IncomeRate: 1},
	}}
	m := newTestManager(store)

	// Без сессии страховочный сброс — no-op
	require.NoError(t, m.FlushActive(context.Background()))
	assert.Equal(t, 0, store.count())

	sess, err := m.Login(context.Background(), "alice")
	require.NoError(t, err)
	defer m.Logout(context.Background())

	sess.Click()
	sess.syncer.Wait()
	before := store.count()

	require.NoError(t, m.FlushActive(context.Background()))
	assert.Equal(t, before+1, store.count())
	assert.Equal(t, int64(6), store.lastUpdate(t).Balance)
}
