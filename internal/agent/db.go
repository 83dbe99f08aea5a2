package agent

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/openfield/fieldsync/internal/dbx"
	"github.com/openfield/fieldsync/internal/migrations"
	"github.com/openfield/fieldsync/internal/models"
	"github.com/openfield/fieldsync/internal/repositories/records"
	"github.com/openfield/fieldsync/internal/repositories/transmissions"
)

// Repositories bundles the local-store repositories backed by one database
// handle.
type Repositories struct {
	Records records.Repository
	Queue   transmissions.Queue
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenDatabase opens the local SQLite store, applies migrations, and returns
// the handle plus its repositories. The caller owns closing the handle; the
// pass acquires it at entry and releases it on every exit path.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, *Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	repos := &Repositories{
		Records: records.NewSQLiteRepository(db),
		Queue:   transmissions.NewSQLiteQueue(db),
	}
	return db, repos, nil
}

// SaveRecord stores a completed record together with its answers in one
// transaction and leaves it SUBMITTED, ready for the next sync pass. This is
// the entry point host applications call when a form is completed.
func SaveRecord(ctx context.Context, db *sql.DB, rec *models.Record, answers []models.Answer) error {
	if rec.UUID == "" {
		rec.UUID = uuid.NewString()
	}
	rec.Status = models.StatusSubmitted
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := records.NewSQLiteRepository(tx)
		if err := repo.Create(ctx, rec); err != nil {
			return err
		}
		for _, a := range answers {
			if err := repo.AddResponse(ctx, rec.ID, a.QuestionID, a.Type, a.Value); err != nil {
				return err
			}
		}
		return nil
	})
}
