// Package storage provides history persistence implementations.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/logger"
)

// DefaultLimit is how many entries Recent returns when limit is not positive.
const DefaultLimit = 10

// Open picks a backend from the endpoint's scheme:
//
//	"" or memory://                 in-process
//	redis:// or rediss://           Redis
//	postgres:// or postgresql://    Postgres
func Open(ctx context.Context, endpoint string, log *logger.Logger) (domain.HistoryStore, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return NewMemoryStore(log), nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("storage: parse endpoint: %w", err)
	}

	switch u.Scheme {
	case "memory":
		return NewMemoryStore(log), nil
	case "redis", "rediss":
		return NewRedisStore(ctx, endpoint, log)
	case "postgres", "postgresql":
		return NewPostgresStore(ctx, endpoint, log)
	default:
		return nil, fmt.Errorf("storage: unsupported endpoint scheme %q", u.Scheme)
	}
}

// prepare fills in the store-assigned fields of an entry.
func prepare(userID string, e *domain.HistoryEntry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.UserID = userID
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
