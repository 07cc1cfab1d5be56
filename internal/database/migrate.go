package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dangerclosesec/socioplus"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

// MigrationSource reads the embedded SQL migrations.
func MigrationSource() (source.Driver, error) {
	src, err := iofs.New(socioplus.MigrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}
	return src, nil
}

// Migrator applies the embedded migrations to a Postgres database.
type Migrator struct {
	db *sql.DB
	m  *migrate.Migrate
}

// NewMigrator opens url with lib/pq and prepares golang-migrate over it.
func NewMigrator(url string) (*Migrator, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init migrate driver: %w", err)
	}

	src, err := MigrationSource()
	if err != nil {
		db.Close()
		return nil, err
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init migrator: %w", err)
	}

	return &Migrator{db: db, m: m}, nil
}

// Up applies all pending migrations. An up-to-date schema is not an error.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back steps migrations, or all of them when steps is zero.
func (m *Migrator) Down(steps int) error {
	var err error
	if steps > 0 {
		err = m.m.Steps(-steps)
	} else {
		err = m.m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Version reports the applied version and whether it is dirty.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}
