package db

import (
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/catalog/*.sql migrations/inventory/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded migrations for the given service schema
// ("catalog" or "inventory") against the pool's database.
func Migrate(pool *pgxpool.Pool, service string) error {
	dir := fmt.Sprintf("migrations/%s", service)
	if _, err := migrationsFS.ReadDir(dir); err != nil {
		return fmt.Errorf("unknown service %q: %w", service, err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	if err := goose.Up(sqlDB, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
