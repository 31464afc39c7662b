package audit

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/dmitrijs2005/easyadmin/internal/dbx"
	"github.com/dmitrijs2005/easyadmin/internal/logging"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresSink appends events to the auth_events table. Write failures are
// logged and the event is lost.
type PostgresSink struct {
	db  dbx.DBTX
	log logging.Logger
}

func NewPostgresSink(db dbx.DBTX, log logging.Logger) *PostgresSink {
	return &PostgresSink{db: db, log: log.With("module", "audit")}
}

// Insert writes a single event.
func (s *PostgresSink) Insert(ctx context.Context, e Event) error {
	query := `
		INSERT INTO auth_events (occurred_at, event_type, method, audience, host, username, success, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := s.db.ExecContext(ctx, query,
		e.Timestamp, e.Type, e.Method, e.Audience, e.Host, e.Username, e.Success, e.Error,
	); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (s *PostgresSink) Emit(ctx context.Context, e Event) {
	if err := s.Insert(ctx, e); err != nil {
		s.log.Error(ctx, "audit write failed", "type", e.Type, "error", err)
	}
}

// OpenPostgres opens a pgx-backed *sql.DB and checks connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded audit schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "migrations"); err != nil {
		return err
	}
	return nil
}
