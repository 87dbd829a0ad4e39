// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package workers

import (
	"context"
	"time"

	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/service"
	"github.com/chatter-social/chatter/internal/store"
)

// ResetSweeper periodically clears password-reset digests whose validity
// window has passed. The sweep is hygiene only: reset validation checks the
// window itself, so correctness never depends on the sweeper having run.
type ResetSweeper struct {
	ctx      context.Context
	users    store.UserRepository
	interval time.Duration
	logger   *logger.Logger
}

// NewResetSweeper creates a sweeper that runs every interval until ctx is
// cancelled.
func NewResetSweeper(ctx context.Context, users store.UserRepository, interval time.Duration, logger *logger.Logger) *ResetSweeper {
	return &ResetSweeper{
		ctx:      ctx,
		users:    users,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the sweep loop in a background goroutine and returns.
func (s *ResetSweeper) Run() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info().Msg("reset sweeper stopped")
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *ResetSweeper) sweep() {
	cutoff := time.Now().Add(-service.ResetTokenTTL)

	swept, err := s.users.ClearExpiredResets(s.ctx, cutoff)
	if err != nil {
		s.logger.Err(err).Msg("reset sweep failed")
		return
	}

	if swept > 0 {
		s.logger.Info().Int64("swept", swept).Msg("expired password resets cleared")
	}
}
