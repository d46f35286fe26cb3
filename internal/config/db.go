package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/logger"
)

const dbPingTimeout = 3 * time.Second

// NewDB opens the Postgres pool behind the credential store and pings it once.
// With debug set it logs which server, role and database it reached.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty DB DSN")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	configurePool(db)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if debug {
		logServerIdentity(ctx, db)
	}
	return db, nil
}

// Requests hold a connection only for single-row queries; hashing happens
// outside any connection, so a small pool is enough.
func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(time.Hour)
}

func logServerIdentity(ctx context.Context, db *sql.DB) {
	var who, dbname, ver string
	err := db.QueryRowContext(ctx, "SELECT current_user, current_database(), current_setting('server_version')").
		Scan(&who, &dbname, &ver)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("db identity query failed")
		return
	}

	logger.Logger.Info().
		Str("user", who).
		Str("db", dbname).
		Str("version", ver).
		Msg("db connected")
}
