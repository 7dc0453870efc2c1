package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	App               AppConfig
	HTTP              ServerConfig
	GRPC              ServerConfig
	Store             StoreConfig
	Log               LogConfig
	InternalEndpoints InternalEndpointsConfig
	Escrow            EscrowConfig
	Ledger            LedgerConfig
	Transfers         TransfersConfig
	Jobs              JobsConfig
}

type AppConfig struct {
	ServiceName string
	APIKey      string
}

type ServerConfig struct {
	Host string
	Port string
}

type StoreConfig struct {
	// Driver is "mysql" or "sqlite3".
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type InternalEndpointsConfig struct {
	AuthGRPCAddr string
}

type EscrowConfig struct {
	OwnerAccount   string
	InitialFeeRate decimal.Decimal
	// StorageByteCost is the native value charged per stored byte.
	StorageByteCost     decimal.Decimal
	RecordOverheadBytes int64
	MinAuthDeposit      decimal.Decimal
	OwnerMayConfirm     bool
}

type LedgerConfig struct {
	BaseURL                   string
	APIKey                    string
	ReceiptSecret             string
	ReceiptCallbackBaseURL    string
	SignatureToleranceSeconds int64
	HTTPTimeout               time.Duration
}

type TransfersConfig struct {
	MaxAttempts         int32
	RetryInterval       time.Duration
	ReconcileStaleAfter time.Duration
	JobBatchSize        int32
}

type JobsConfig struct {
	DispatchInterval  time.Duration
	ReconcileInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	driver := strings.ToLower(getEnv("STORE_DRIVER", "mysql"))
	if driver != "mysql" && driver != "sqlite3" {
		return nil, errors.New("STORE_DRIVER must be mysql or sqlite3")
	}

	dsn := getEnv("STORE_DSN", os.Getenv("MYSQL_DSN"))
	if dsn == "" {
		return nil, errors.New("STORE_DSN environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "escrow-service"),
			APIKey:      getEnv("APP_API_KEY", ""),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		GRPC: ServerConfig{
			Host: getEnv("GRPC_HOST", "0.0.0.0"),
			Port: getEnv("GRPC_PORT", "9090"),
		},
		Store: StoreConfig{
			Driver:          driver,
			DSN:             dsn,
			MaxOpenConns:    getIntEnv("STORE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("STORE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("STORE_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		InternalEndpoints: InternalEndpointsConfig{
			AuthGRPCAddr: getEnv("AUTH_SERVICE_GRPC_ADDR", "localhost:9090"),
		},
		Escrow: EscrowConfig{
			OwnerAccount:        getEnv("ESCROW_OWNER_ACCOUNT", ""),
			InitialFeeRate:      getDecimalEnv("ESCROW_INITIAL_FEE_RATE", decimal.NewFromInt(20000)),
			StorageByteCost:     getDecimalEnv("ESCROW_STORAGE_BYTE_COST", decimal.NewFromInt(10_000_000_000_000_000)),
			RecordOverheadBytes: int64(getIntEnv("ESCROW_RECORD_OVERHEAD_BYTES", 40)),
			MinAuthDeposit:      getDecimalEnv("ESCROW_MIN_AUTH_DEPOSIT", decimal.NewFromInt(1)),
			OwnerMayConfirm:     getBoolEnv("ESCROW_OWNER_MAY_CONFIRM", true),
		},
		Ledger: LedgerConfig{
			BaseURL:                   getEnv("LEDGER_BASE_URL", ""),
			APIKey:                    getEnv("LEDGER_API_KEY", ""),
			ReceiptSecret:             getEnv("LEDGER_RECEIPT_SECRET", ""),
			ReceiptCallbackBaseURL:    getEnv("LEDGER_RECEIPT_CALLBACK_BASE_URL", ""),
			SignatureToleranceSeconds: int64(getIntEnv("LEDGER_SIGNATURE_TOLERANCE_SECONDS", 300)),
			HTTPTimeout:               getSecondsEnv("LEDGER_HTTP_TIMEOUT_SECONDS", 10*time.Second),
		},
		Transfers: TransfersConfig{
			MaxAttempts:         int32(getIntEnv("TRANSFERS_MAX_ATTEMPTS", 10)),
			RetryInterval:       getMinutesEnv("TRANSFERS_RETRY_INTERVAL_MINUTES", 5*time.Minute),
			ReconcileStaleAfter: getMinutesEnv("TRANSFERS_RECONCILE_STALE_AFTER_MINUTES", 15*time.Minute),
			JobBatchSize:        int32(getIntEnv("TRANSFERS_JOB_BATCH_SIZE", 100)),
		},
		Jobs: JobsConfig{
			DispatchInterval:  getMinutesEnv("TRANSFERS_DISPATCH_INTERVAL_MINUTES", time.Minute),
			ReconcileInterval: getMinutesEnv("TRANSFERS_RECONCILE_INTERVAL_MINUTES", 2*time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getDecimalEnv reads an exact decimal; amounts never go through float64.
func getDecimalEnv(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
