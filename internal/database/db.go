// Package database connects to the MySQL store of the knowledge base and applies its migrations.
package database

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/michaelanticoli/quantumelodic/internal/config"
)

const connectTimeout = 5 * time.Second

// mysqlConfig builds the driver settings for the knowledge_entries store.
// Terms are utf8mb4 text, timestamps scan into time.Time, and every migration is a single statement.
func mysqlConfig(cfg config.DatabaseConfig) *mysql.Config {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = cfg.Username
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mysqlCfg.DBName = cfg.Database
	mysqlCfg.ParseTime = true
	mysqlCfg.Timeout = connectTimeout
	mysqlCfg.Params = map[string]string{"charset": "utf8mb4"}
	maps.Copy(mysqlCfg.Params, cfg.Params)
	if cfg.TLS {
		mysqlCfg.TLSConfig = "true"
	}
	return mysqlCfg
}

// Open prepares a connection pool without dialing the server.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", mysqlConfig(cfg).FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	return db, nil
}

// Connect opens the pool and pings the server so a misconfigured database fails at startup
// rather than on the first collected term.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.PingContext(%s:%d) > %w", cfg.Host, cfg.Port, err)
	}
	return db, nil
}
