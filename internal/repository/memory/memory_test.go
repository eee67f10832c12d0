package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policeapp/internal/domain/entities"
	"policeapp/internal/geo"
	"policeapp/internal/repository"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u := entities.NewUser("Asha", "Asha@Example.com", "+911234567890", "hash")
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)

	byEmail, err := repo.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byPhone, err := repo.GetByPhone(ctx, "+911234567890")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByPhone(ctx, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_Conflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.Create(ctx, entities.NewUser("a", "a@x.com", "111", "h")))
	require.NoError(t, repo.Create(ctx, entities.NewUser("b", "b@x.com", "222", "h")))

	assert.ErrorIs(t, repo.Create(ctx, entities.NewUser("c", "A@X.COM", "333", "h")), repository.ErrConflict)
	assert.ErrorIs(t, repo.Create(ctx, entities.NewUser("c", "c@x.com", "111", "h")), repository.ErrConflict)

	b, err := repo.GetByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	b.Email = "a@x.com"
	assert.ErrorIs(t, repo.Update(ctx, b), repository.ErrConflict)
}

func TestUserRepository_UpdateReindexes(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u := entities.NewUser("a", "a@x.com", "111", "h")
	require.NoError(t, repo.Create(ctx, u))

	u.Email = "new@x.com"
	u.Phone = "999"
	require.NoError(t, repo.Update(ctx, u))

	_, err := repo.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByPhone(ctx, "111")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := repo.GetByPhone(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", got.Email)

	assert.ErrorIs(t, repo.Update(ctx, &entities.User{ID: 42}), repository.ErrNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u := entities.NewUser("a", "a@x.com", "111", "h")
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Name)
}

func newReport(id string, userID int64, lat, lon float64, at time.Time) *entities.Report {
	r := entities.NewReport(id, userID, entities.CrimeTypeTheft, entities.NewLocation(lat, lon), geo.Encode(lat, lon, 6))
	r.CreatedAt = at
	return r
}

func TestReportRepository_ListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newReport("r1", 1, 12.97, 77.59, base)))
	require.NoError(t, repo.Create(ctx, newReport("r2", 1, 12.97, 77.59, base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newReport("r3", 2, 12.97, 77.59, base)))
	require.NoError(t, repo.Create(ctx, newReport("r4", 1, 12.97, 77.59, base.Add(time.Hour))))

	got, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"r4", "r2", "r1"}, ids)

	assert.ErrorIs(t, repo.Create(ctx, newReport("r1", 1, 0, 0, base)), repository.ErrConflict)
}

func TestReportRepository_ListInCells(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, newReport("bangalore", 1, 12.9716, 77.5946, now)))
	require.NoError(t, repo.Create(ctx, newReport("bangalore-2", 1, 12.9720, 77.5950, now)))
	require.NoError(t, repo.Create(ctx, newReport("delhi", 1, 28.6139, 77.2090, now)))

	cells := geo.AllNeighbors(geo.Encode(12.9716, 77.5946, 5))
	got, err := repo.ListInCells(ctx, cells)
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, r := range got {
		ids[r.ID] = true
	}
	assert.True(t, ids["bangalore"])
	assert.True(t, ids["bangalore-2"])
	assert.False(t, ids["delhi"])

	none, err := repo.ListInCells(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFeedbackRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFeedbackRepository()
	require.NoError(t, repo.Create(ctx, entities.NewFeedback("f1", 1, "a@x.com", 5, "great")))
	require.NoError(t, repo.Create(ctx, entities.NewFeedback("f2", 2, "b@x.com", 3, "ok")))

	got, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "f1", got[0].ID)
}

func TestLockManager_AcquireAndExpire(t *testing.T) {
	ctx := context.Background()
	lm := NewLockManager(time.Hour)
	defer lm.Stop()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lm.now = func() time.Time { return now }

	ok, err := lm.AcquireLock(ctx, "report:1:theft", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lm.AcquireLock(ctx, "report:1:theft", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire inside the TTL must fail")

	ttl, err := lm.TTL(ctx, "report:1:theft")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, ttl)

	now = now.Add(31 * time.Second)
	locked, err := lm.IsLocked(ctx, "report:1:theft")
	require.NoError(t, err)
	assert.False(t, locked)

	ok, err = lm.AcquireLock(ctx, "report:1:theft", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "lapsed lock counts as free")

	require.NoError(t, lm.ReleaseLock(ctx, "report:1:theft"))
	locked, err = lm.IsLocked(ctx, "report:1:theft")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestLockManager_ConcurrentAcquire(t *testing.T) {
	ctx := context.Background()
	lm := NewLockManager(time.Hour)
	defer lm.Stop()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := lm.AcquireLock(ctx, "k", time.Minute)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestLockManager_Sweep(t *testing.T) {
	ctx := context.Background()
	lm := NewLockManager(5 * time.Millisecond)
	defer lm.Stop()

	_, err := lm.AcquireLock(ctx, "short", time.Millisecond)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		lm.mu.RLock()
		defer lm.mu.RUnlock()
		return len(lm.locks) == 0
	}, time.Second, 5*time.Millisecond)
}

var (
	_ repository.UserRepository     = (*UserRepository)(nil)
	_ repository.ReportRepository   = (*ReportRepository)(nil)
	_ repository.FeedbackRepository = (*FeedbackRepository)(nil)
	_ repository.LockManager        = (*LockManager)(nil)
)
