package db

import (
	"database/sql"
	"errors"
	"time"

	"trip_recommender/config"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL with the pool settings from cfg and verifies the
// connection.
func Open(cfg *config.Config) (*sql.DB, error) {
	if cfg.DB.DSN == "" {
		return nil, errors.New("database DSN is not configured")
	}

	conn, err := sql.Open("mysql", cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	Configure(conn, cfg)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// Configure applies pool limits, falling back to defaults for unset values.
func Configure(conn *sql.DB, cfg *config.Config) {
	maxOpenConns := cfg.DB.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 50
	}

	maxIdleConns := cfg.DB.MaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = 10
	}

	connMaxLifetime := cfg.DB.ConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 60 // minutes
	}

	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Minute)
}
