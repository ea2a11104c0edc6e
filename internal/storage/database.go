package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"askgate/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the structured-data backend the SQL responder queries.
func Open(dbType string, cfg *config.Config) (*sql.DB, error) {
	dbCfg, ok := cfg.Databases[dbType]
	if !ok {
		return nil, fmt.Errorf("database config for %s not found", dbType)
	}

	var (
		db  *sql.DB
		err error
	)

	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3":
		if dbCfg.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn must be provided")
		}
		db, err = sql.Open("sqlite3", dbCfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.Username,
			dbCfg.Password,
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.DBName,
			dbCfg.Params,
		)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", dbType)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate ensures the sales table exists. Production deployments point at an
// existing warehouse; this keeps the sqlite dev path self-contained.
func Migrate(db *sql.DB, driver string) error {
	var stmts []string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS sales (
				sale_id INTEGER PRIMARY KEY AUTOINCREMENT,
				product_name TEXT NOT NULL,
				quantity INTEGER NOT NULL,
				unit_price REAL NOT NULL,
				sale_date DATETIME NOT NULL,
				customer_name TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(sale_date)`,
		}
	case "mysql":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS sales (
				sale_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				product_name VARCHAR(255) NOT NULL,
				quantity INT NOT NULL,
				unit_price DECIMAL(10,2) NOT NULL,
				sale_date DATETIME NOT NULL,
				customer_name VARCHAR(255) NOT NULL,
				PRIMARY KEY (sale_id),
				INDEX idx_sales_date (sale_date)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		}
	default:
		return fmt.Errorf("unsupported driver for migration: %s", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate (%s): %w", driver, err)
		}
	}
	return nil
}
