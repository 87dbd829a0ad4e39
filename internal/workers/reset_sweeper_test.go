// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/service"
	"github.com/chatter-social/chatter/internal/store"
	"github.com/chatter-social/chatter/models"
)

// sweepRepo implements the single repository method the sweeper exercises
// and records the cutoffs it was called with.
type sweepRepo struct {
	calls  atomic.Int64
	cutoff atomic.Value
	err    error
}

func (r *sweepRepo) ClearExpiredResets(ctx context.Context, cutoff time.Time) (int64, error) {
	r.calls.Add(1)
	r.cutoff.Store(cutoff)
	return 2, r.err
}

func (r *sweepRepo) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	return models.User{}, nil
}
func (r *sweepRepo) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	return models.User{}, nil
}
func (r *sweepRepo) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return models.User{}, nil
}
func (r *sweepRepo) UpdateRememberDigest(ctx context.Context, id int64, digest string) error {
	return nil
}
func (r *sweepRepo) SetResetDigest(ctx context.Context, id int64, digest string, sentAt time.Time) error {
	return nil
}
func (r *sweepRepo) UpdatePasswordClearReset(ctx context.Context, id int64, passwordDigest string) error {
	return nil
}
func (r *sweepRepo) UpdatePassword(ctx context.Context, id int64, passwordDigest string) error {
	return nil
}
func (r *sweepRepo) Activate(ctx context.Context, id int64, at time.Time) error {
	return nil
}

var _ store.UserRepository = (*sweepRepo)(nil)

func TestResetSweeper_SweepsPastTheWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &sweepRepo{}
	sweeper := NewResetSweeper(ctx, repo, 10*time.Millisecond, logger.Nop())
	sweeper.Run()

	deadline := time.After(time.Second)
	for repo.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper did not run twice within a second")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cutoff, ok := repo.cutoff.Load().(time.Time)
	if !ok {
		t.Fatal("no cutoff recorded")
	}
	if age := time.Since(cutoff); age < service.ResetTokenTTL || age > service.ResetTokenTTL+time.Minute {
		t.Errorf("cutoff lags now by %v, want about %v", age, service.ResetTokenTTL)
	}
}

func TestResetSweeper_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	repo := &sweepRepo{}
	sweeper := NewResetSweeper(ctx, repo, 5*time.Millisecond, logger.Nop())
	sweeper.Run()

	deadline := time.After(time.Second)
	for repo.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("sweeper never ran")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	time.Sleep(20 * time.Millisecond)
	after := repo.calls.Load()
	time.Sleep(30 * time.Millisecond)

	if got := repo.calls.Load(); got != after {
		t.Errorf("sweeper kept running after cancel: %d -> %d", after, got)
	}
}
