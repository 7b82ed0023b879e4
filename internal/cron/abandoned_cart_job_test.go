package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/logger"
)

func TestAbandonedCartJobPurgesWithConfiguredCutoff(t *testing.T) {
	now := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	repo := &fakeCartPurgeRepo{staleRows: 7, inactiveRows: 2}
	job := newAbandonedCartJob(t, repo, 30*24*time.Hour)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.UTC().Add(-30 * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, repo.lastCutoff)
	}
	if repo.staleCalls != 1 || repo.inactiveCalls != 1 {
		t.Fatalf("expected one call per phase, got %d and %d", repo.staleCalls, repo.inactiveCalls)
	}
}

func TestAbandonedCartJobRunsBothPhasesOnFailure(t *testing.T) {
	repo := &fakeCartPurgeRepo{staleErr: errors.New("boom")}
	job := newAbandonedCartJob(t, repo, time.Hour)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if repo.inactiveCalls != 1 {
		t.Fatal("a stale purge failure must not skip the inactive user phase")
	}
}

func TestAbandonedCartJobCombinesPhaseErrors(t *testing.T) {
	repo := &fakeCartPurgeRepo{
		staleErr:    errors.New("stale boom"),
		inactiveErr: errors.New("inactive boom"),
	}
	job := newAbandonedCartJob(t, repo, time.Hour)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, repo.staleErr) || !errors.Is(err, repo.inactiveErr) {
		t.Fatalf("expected both phase errors, got %v", err)
	}
}

func newAbandonedCartJob(t *testing.T, repo *fakeCartPurgeRepo, ttl time.Duration) *abandonedCartJob {
	t.Helper()
	jobIface, err := NewAbandonedCartJob(AbandonedCartJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		DB:         purgeFakeTxRunner{},
		Repository: repo,
		TTL:        ttl,
	})
	if err != nil {
		t.Fatalf("NewAbandonedCartJob: %v", err)
	}
	job, ok := jobIface.(*abandonedCartJob)
	if !ok {
		t.Fatalf("expected abandonedCartJob, got %T", jobIface)
	}
	return job
}

type fakeCartPurgeRepo struct {
	lastCutoff    time.Time
	staleRows     int64
	inactiveRows  int64
	staleErr      error
	inactiveErr   error
	staleCalls    int
	inactiveCalls int
}

func (f *fakeCartPurgeRepo) DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	f.staleCalls++
	f.lastCutoff = cutoff
	if f.staleErr != nil {
		return 0, f.staleErr
	}
	return f.staleRows, nil
}

func (f *fakeCartPurgeRepo) DeleteForInactiveUsers(ctx context.Context, tx *gorm.DB) (int64, error) {
	f.inactiveCalls++
	if f.inactiveErr != nil {
		return 0, f.inactiveErr
	}
	return f.inactiveRows, nil
}

type purgeFakeTxRunner struct{}

func (purgeFakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
