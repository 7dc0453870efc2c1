package repository

import (
	"context"
	"fmt"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS mediator_state (
		id TINYINT UNSIGNED NOT NULL PRIMARY KEY,
		owner VARCHAR(128) NOT NULL,
		last_payment_id DECIMAL(39,0) NOT NULL,
		fee_rate DECIMAL(39,0) NOT NULL,
		fee_accrued_total DECIMAL(39,0) NOT NULL,
		fee_withdrawn_total DECIMAL(39,0) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS payment_records (
		payment_key BINARY(16) NOT NULL PRIMARY KEY,
		envelope VARBINARY(8192) NOT NULL,
		status TINYINT NOT NULL,
		shop_account VARCHAR(128) NOT NULL,
		user_account VARCHAR(128) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		KEY idx_payment_records_shop (shop_account),
		KEY idx_payment_records_user (user_account),
		KEY idx_payment_records_status (status)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS payment_orders (
		order_key BINARY(16) NOT NULL PRIMARY KEY,
		payment_key BINARY(16) NOT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS transfers (
		id CHAR(36) NOT NULL PRIMARY KEY,
		payment_key BINARY(16) NULL,
		kind TINYINT NOT NULL,
		receiver VARCHAR(128) NOT NULL,
		amount DECIMAL(39,0) NOT NULL,
		status TINYINT NOT NULL,
		attempts INT NOT NULL DEFAULT 0,
		next_attempt_at DATETIME(6) NULL,
		ledger_transfer_id VARCHAR(128) NULL,
		receipt_hash CHAR(36) NOT NULL,
		last_error TEXT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_transfers_receipt_hash (receipt_hash),
		KEY idx_transfers_dispatch (status, next_attempt_at),
		KEY idx_transfers_payment (payment_key)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS payment_events (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		payment_key BINARY(16) NULL,
		event_type VARCHAR(64) NOT NULL,
		caller VARCHAR(128) NOT NULL,
		old_status TINYINT NULL,
		new_status TINYINT NOT NULL,
		payload_json TEXT NULL,
		created_at DATETIME(6) NOT NULL,
		KEY idx_payment_events_payment (payment_key)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS transfer_receipts (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		transfer_id CHAR(36) NULL,
		receipt_hash VARCHAR(64) NOT NULL,
		signature VARCHAR(512) NOT NULL,
		payload_json TEXT NOT NULL,
		status INT NOT NULL,
		error TEXT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB`,
}

// SQLite keeps 128-bit amounts as TEXT; NUMERIC affinity would round them
// through float64.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS mediator_state (
		id INTEGER NOT NULL PRIMARY KEY,
		owner TEXT NOT NULL,
		last_payment_id TEXT NOT NULL,
		fee_rate TEXT NOT NULL,
		fee_accrued_total TEXT NOT NULL,
		fee_withdrawn_total TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payment_records (
		payment_key BLOB NOT NULL PRIMARY KEY,
		envelope BLOB NOT NULL,
		status INTEGER NOT NULL,
		shop_account TEXT NOT NULL,
		user_account TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_records_shop ON payment_records (shop_account)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_records_user ON payment_records (user_account)`,
	`CREATE TABLE IF NOT EXISTS payment_orders (
		order_key BLOB NOT NULL PRIMARY KEY,
		payment_key BLOB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transfers (
		id TEXT NOT NULL PRIMARY KEY,
		payment_key BLOB NULL,
		kind INTEGER NOT NULL,
		receiver TEXT NOT NULL,
		amount TEXT NOT NULL,
		status INTEGER NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		next_attempt_at DATETIME NULL,
		ledger_transfer_id TEXT NULL,
		receipt_hash TEXT NOT NULL UNIQUE,
		last_error TEXT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_dispatch ON transfers (status, next_attempt_at)`,
	`CREATE TABLE IF NOT EXISTS payment_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		payment_key BLOB NULL,
		event_type TEXT NOT NULL,
		caller TEXT NOT NULL,
		old_status INTEGER NULL,
		new_status INTEGER NOT NULL,
		payload_json TEXT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transfer_receipts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transfer_id TEXT NULL,
		receipt_hash TEXT NOT NULL,
		signature TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		status INTEGER NOT NULL,
		error TEXT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
}

// Migrate creates every table the service needs. Statements are idempotent.
func Migrate(ctx context.Context, db DBTX, dialect Dialect) error {
	statements := sqliteSchema
	if dialect == DialectMySQL {
		statements = mysqlSchema
	}
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
