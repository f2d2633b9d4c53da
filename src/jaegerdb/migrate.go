package jaegerdb

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations is the schema shipped with the binary.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

type Migrator struct {
	db  *DB
	log *zap.Logger
}

func NewMigrator(db *DB, log *zap.Logger) *Migrator {
	return &Migrator{db: db, log: log}
}

// Up applies every script in source newer than the recorded schema version.
// Scripts are named like "0002_description.sql" and each runs in its own
// transaction together with the version bump.
func (m *Migrator) Up(ctx context.Context, source fs.FS) error {
	list, err := fs.ReadDir(source, ".")
	if err != nil {
		return err
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	if len(list) == 0 {
		return nil
	}

	if _, err := m.db.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	current, err := m.version(ctx)
	if err != nil {
		return err
	}
	final, err := scriptVersion(list[len(list)-1].Name())
	if err != nil {
		return err
	}
	if final > current {
		m.log.Info("Bringing up schema migrations", zap.Int("migration_count", final-current))
	}

	for _, f := range list {
		name := f.Name()
		v, err := scriptVersion(name)
		if err != nil {
			return err
		}
		if v <= current {
			continue
		}

		m.log.Debug("Executing schema migration", zap.String("migration_name", name))
		script, err := fs.ReadFile(source, name)
		if err != nil {
			return err
		}
		err = pgx.BeginFunc(ctx, m.db.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(script)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", v)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		current = v
	}
	return nil
}

func (m *Migrator) version(ctx context.Context) (int, error) {
	var v int
	err := m.db.pool.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// scriptVersion extracts 2 from "0002_migration_name.sql".
func scriptVersion(filename string) (int, error) {
	v, err := strconv.Atoi(strings.Split(filename, "_")[0])
	if err != nil {
		return 0, fmt.Errorf("migration %q has no numeric prefix: %w", filename, err)
	}
	return v, nil
}
