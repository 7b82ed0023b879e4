package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/logger"
)

const defaultAbandonedCartTTL = 30 * 24 * time.Hour

// AbandonedCartJobParams configure the cart purge job.
type AbandonedCartJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository cartPurgeRepo
	TTL        time.Duration
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartPurgeRepo interface {
	DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
	DeleteForInactiveUsers(ctx context.Context, tx *gorm.DB) (int64, error)
}

// NewAbandonedCartJob builds the cron job that drops carts nobody came back
// for. Stale lines and lines owned by deactivated accounts are purged in
// independent phases so one failure does not hide the other.
func NewAbandonedCartJob(params AbandonedCartJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultAbandonedCartTTL
	}
	return &abandonedCartJob{
		logg: params.Logger,
		db:   params.DB,
		repo: params.Repository,
		ttl:  ttl,
		now:  time.Now,
	}, nil
}

type abandonedCartJob struct {
	logg *logger.Logger
	db   txRunner
	repo cartPurgeRepo
	ttl  time.Duration
	now  func() time.Time
}

func (j *abandonedCartJob) Name() string { return "abandoned-cart-purge" }

func (j *abandonedCartJob) Run(ctx context.Context) error {
	return multierr.Combine(
		j.purgeStaleLines(ctx),
		j.purgeInactiveUserLines(ctx),
	)
}

func (j *abandonedCartJob) purgeStaleLines(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteOlderThan(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("purge stale cart lines: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "stale cart line purge complete")
	return nil
}

func (j *abandonedCartJob) purgeInactiveUserLines(ctx context.Context) error {
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteForInactiveUsers(ctx, tx)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("purge inactive user cart lines: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"rows_deleted": deleted})
	j.logg.Info(logCtx, "inactive user cart line purge complete")
	return nil
}
