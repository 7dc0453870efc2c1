package cmd

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-escrow/app/escrow"
	"github.com/vibast-solutions/ms-go-escrow/app/ledger"
	"github.com/vibast-solutions/ms-go-escrow/app/repository"
	"github.com/vibast-solutions/ms-go-escrow/app/service"
	"github.com/vibast-solutions/ms-go-escrow/config"
)

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	return cfg
}

func mustOpenDB(cfg *config.Config) (*sql.DB, repository.Dialect) {
	dialect, err := repository.ParseDialect(cfg.Store.Driver)
	if err != nil {
		logrus.WithError(err).Fatal("Unsupported store driver")
	}

	dsn := cfg.Store.DSN
	if dialect == repository.DialectMySQL {
		mysqlCfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			logrus.WithError(err).Fatal("Invalid MySQL DSN")
		}
		mysqlCfg.ParseTime = true
		dsn = mysqlCfg.FormatDSN()
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.Store.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Store.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Store.ConnMaxLifetime)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	return db, dialect
}

func mustCreateEscrowService() (*config.Config, *service.EscrowService, func()) {
	cfg := mustLoadConfig()
	db, dialect := mustOpenDB(cfg)

	engine := escrow.NewEngine(
		escrow.Policy{
			OwnerMayConfirm: cfg.Escrow.OwnerMayConfirm,
			MinAuthDeposit:  cfg.Escrow.MinAuthDeposit,
		},
		repository.StorageMeter{
			ByteCost:       cfg.Escrow.StorageByteCost,
			RecordOverhead: cfg.Escrow.RecordOverheadBytes,
		},
	)

	ledgerClient := ledger.NewHTTPClient(ledger.HTTPConfig{
		BaseURL:                   cfg.Ledger.BaseURL,
		APIKey:                    cfg.Ledger.APIKey,
		ReceiptSecret:             cfg.Ledger.ReceiptSecret,
		ReceiptCallbackBaseURL:    cfg.Ledger.ReceiptCallbackBaseURL,
		SignatureToleranceSeconds: cfg.Ledger.SignatureToleranceSeconds,
		HTTPTimeout:               cfg.Ledger.HTTPTimeout,
	})

	escrowService := service.NewEscrowService(
		service.NewSQLStore(repository.NewStore(db, dialect)),
		engine,
		ledgerClient,
		cfg.Transfers,
	)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, escrowService, cleanup
}
