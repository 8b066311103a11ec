package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const createCatalogsSQL = `
CREATE TABLE IF NOT EXISTS catalogs (
    id   TEXT PRIMARY KEY,
    data JSONB NOT NULL
)`

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createCatalogsSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`DROP TABLE IF EXISTS catalogs`)
			return err
		},
	)
}
