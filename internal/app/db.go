package app

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/matchbook-app/matchbook/internal/config"
)

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
