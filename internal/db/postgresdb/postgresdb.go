// Package postgresdb provides a PostgreSQL-backed implementation of the
// key-value storage. The schema is managed with goose migrations.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

var openDB = sql.Open

// PostgresDB keeps key-value pairs in the client_state table.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type initOptions struct {
	DBPreReset bool
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset enables or disables dropping every table before migration.
// It can be used for test setups or development purposes.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// New connects to the database, applies the migrations from migrationsDir
// and returns a ready PostgresDB.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{
		DBPreReset: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := openDB("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if options.DBPreReset {
		if err := result.resetDB(ctx); err != nil {
			return nil, errors.Join(
				fmt.Errorf(
					"in internal/db/postgresdb/postgresdb.go/New(): error while `result.resetDB()` calling: %w",
					err,
				),
				database.Close(),
			)
		}
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, errors.Join(
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.SetDialect()` calling: %w",
				err,
			),
			database.Close(),
		)
	}

	if err := goose.UpContext(ctx, result.database, migrationsDir); err != nil {
		return nil, errors.Join(
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.UpContext()` calling: %w",
				err,
			),
			database.Close(),
		)
	}

	return result, nil
}

// Get returns the value stored under key.
func (db *PostgresDB) Get(ctx context.Context, key string) (string, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT value FROM client_state WHERE key = $1`,
		key,
	)
	var value string
	err := row.Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}

	return value, true, nil
}

// Set upserts value under key.
func (db *PostgresDB) Set(ctx context.Context, key, value string) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO client_state (key, value, updated_at)
				VALUES ($1, $2, now())
				ON CONFLICT (key) DO UPDATE
				SET
					value = EXCLUDED.value,
					updated_at = EXCLUDED.updated_at;
		`,
		key,
		value,
	)

	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (db *PostgresDB) Delete(ctx context.Context, key string) error {
	_, err := db.database.ExecContext(
		ctx,
		`DELETE FROM client_state WHERE key = $1`,
		key,
	)

	return err
}

// Ping verifies connectivity with the PostgreSQL database within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the database connection and releases any associated resources.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/resetDB(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}
	return nil
}
