package db

import (
	"database/sql"
	"fmt"

	"enrollment-module/config"

	_ "github.com/lib/pq"
)

// Open connects to Postgres and ensures the schema exists.
func Open(cfg *config.Config) (*sql.DB, error) {
	database, err := sql.Open("postgres", cfg.DBConnString())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := createTables(database); err != nil {
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return database, nil
}

func createTables(database *sql.DB) error {
	accountTable := `
	CREATE TABLE IF NOT EXISTS accounts (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	orderTable := `
	CREATE TABLE IF NOT EXISTS enrollment_orders (
		id SERIAL PRIMARY KEY,
		invoice_no TEXT NOT NULL,
		invoice_link TEXT NOT NULL,

		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		city TEXT,
		state TEXT,
		pincode TEXT,
		id_doc_type TEXT,
		id_doc_no TEXT,
		date_of_birth DATE,

		product_type TEXT NOT NULL,
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		addons JSONB NOT NULL DEFAULT '[]',
		months INTEGER NOT NULL DEFAULT 1,

		unit_price NUMERIC(12,2) NOT NULL,
		program_price NUMERIC(12,2) NOT NULL,
		addon_price NUMERIC(12,2) NOT NULL,
		subtotal NUMERIC(12,2) NOT NULL,
		gst_rate NUMERIC(5,2) NOT NULL,
		gst_amount NUMERIC(12,2) NOT NULL,
		total NUMERIC(12,2) NOT NULL,

		order_id TEXT NOT NULL,
		payment_id TEXT,
		status TEXT NOT NULL,
		payment_date TIMESTAMP,

		terms_agreed BOOLEAN NOT NULL,
		info_certified BOOLEAN NOT NULL,

		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	// Gateway order id, invoice number and invoice-link token are each
	// globally unique; duplicate callbacks and collisions are rejected by
	// the database, not just application logic.
	orderIndexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_order_id ON enrollment_orders (order_id);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_invoice_no ON enrollment_orders (invoice_no);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_invoice_link ON enrollment_orders (invoice_link);`,
	}

	if _, err := database.Exec(accountTable); err != nil {
		return fmt.Errorf("error creating accounts table: %w", err)
	}

	if _, err := database.Exec(orderTable); err != nil {
		return fmt.Errorf("error creating enrollment_orders table: %w", err)
	}

	for _, stmt := range orderIndexes {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("error creating index: %w", err)
		}
	}

	return nil
}
