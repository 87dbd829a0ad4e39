package store

import (
	"context"

	"github.com/chatter-social/chatter/internal/config"
	"github.com/chatter-social/chatter/internal/logger"
)

// Repositories bundles every repository the application wires at startup.
type Repositories struct {
	UserRepository UserRepository
}

// NewRepositories connects to the configured database and constructs all
// repositories over the shared connection.
func NewRepositories(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Repositories, *DB, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, nil, err
	}

	return &Repositories{
		UserRepository: NewUserRepository(db, log),
	}, db, nil
}
