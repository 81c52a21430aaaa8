package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Use pgx via database/sql
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Compile-time interface check.
var _ domain.HistoryStore = (*PostgresStore)(nil)

// PostgresStore keeps history in the recipe_history table.
type PostgresStore struct {
	db  *sqlx.DB
	log *logger.Logger
}

// historyRow mirrors a recipe_history row.
type historyRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	RawText     string    `db:"raw_text"`
	Ingredients string    `db:"ingredients"`
	MaxMinutes  int       `db:"max_minutes"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r historyRow) entry() domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:          r.ID,
		UserID:      r.UserID,
		RawText:     r.RawText,
		Ingredients: r.Ingredients,
		MaxMinutes:  r.MaxMinutes,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

// NewPostgresStore opens the database, pings it and runs migrations.
func NewPostgresStore(ctx context.Context, dsn string, log *logger.Logger) (*PostgresStore, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	// Configure pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping database: %w", err)
	}

	if err := migrate(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info("history store: postgres ready")
	return &PostgresStore{db: db, log: log}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("storage: goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("storage: migrate: %w", err)
	}
	return nil
}

// Save inserts the entry.
func (s *PostgresStore) Save(ctx context.Context, userID string, entry *domain.HistoryEntry) error {
	prepare(userID, entry)

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO recipe_history (id, user_id, raw_text, ingredients, max_minutes, created_at)
		VALUES (:id, :user_id, :raw_text, :ingredients, :max_minutes, :created_at)`,
		historyRow{
			ID:          entry.ID,
			UserID:      entry.UserID,
			RawText:     entry.RawText,
			Ingredients: entry.Ingredients,
			MaxMinutes:  entry.MaxMinutes,
			CreatedAt:   entry.CreatedAt,
		})
	if err != nil {
		return fmt.Errorf("storage: insert entry: %w", err)
	}
	s.log.Debug("saved history entry %s (user=%s)", entry.ID, userID)
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *PostgresStore) Recent(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	var rows []historyRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, raw_text, ingredients, max_minutes, created_at
		FROM recipe_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, userID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("storage: list entries: %w", err)
	}

	out := make([]domain.HistoryEntry, len(rows))
	for i, r := range rows {
		out[i] = r.entry()
	}
	return out, nil
}

// Get retrieves one entry by ID.
func (s *PostgresStore) Get(ctx context.Context, userID, id string) (*domain.HistoryEntry, error) {
	var row historyRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, raw_text, ingredients, max_minutes, created_at
		FROM recipe_history
		WHERE user_id = $1 AND id = $2`, userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get entry: %w", err)
	}
	e := row.entry()
	return &e, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
