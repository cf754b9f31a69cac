package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/core-coin/go-core/v2/common"
	"github.com/joho/godotenv"
)

// Ledger modes. In db mode the Postgres balance is authoritative and claims
// credit it directly. In chain mode the faucet contract pays the daily
// allowance and the DB cooldown is only a secondary guard.
const (
	LedgerModeDB    = "db"
	LedgerModeChain = "chain"
)

type Config struct {
	Development bool
	// API configuration
	APIPort int
	// Postgres configuration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string
	// Blockchain configuration
	RPCURL           string
	TokenAddress     string
	FeederAddress    string
	ServerPrivateKey string
	NetworkID        int64
	LedgerMode       string

	// Game parameters
	DailyAmount   int64
	FeedCost      int64
	MaxDailyFeeds int

	// Payment configuration
	StripeSecretKey     string
	StripeWebhookSecret string
	CheckoutSuccessURL  string
	CheckoutCancelURL   string

	// Auth configuration
	JWTSecret string

	// Media storage configuration
	MediaDir     string
	MediaBaseURL string

	// Notification configuration
	TelegramBotToken string
	TelegramChatID   string
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:      getEnvAsBool("DEVELOPMENT", false),
		APIPort:          getEnvAsInt("API_PORT", 8090),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:       getEnv("POSTGRES_DB", "cattv"),

		RPCURL:           getEnv("RPC_URL", "http://localhost:8545"),
		TokenAddress:     getEnv("TOKEN_ADDRESS", ""),
		FeederAddress:    getEnv("CATFEEDER_ADDRESS", ""),
		ServerPrivateKey: getEnv("SERVER_WALLET_PRIVATE_KEY", ""),
		NetworkID:        int64(getEnvAsInt("NETWORK_ID", 1)),
		LedgerMode:       getEnv("LEDGER_MODE", LedgerModeDB),

		DailyAmount:   int64(getEnvAsInt("DAILY_AMOUNT", 100)),
		FeedCost:      int64(getEnvAsInt("FEED_COST", 10)),
		MaxDailyFeeds: getEnvAsInt("MAX_DAILY_FEEDS", 50),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		CheckoutSuccessURL:  getEnv("CHECKOUT_SUCCESS_URL", "https://cat-tv.web.app?purchase=success"),
		CheckoutCancelURL:   getEnv("CHECKOUT_CANCEL_URL", "https://cat-tv.web.app?purchase=cancelled"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		MediaDir:     getEnv("MEDIA_DIR", "./media"),
		MediaBaseURL: getEnv("MEDIA_BASE_URL", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
	}

	// Set default network ID before validation (required for address parsing)
	common.DefaultNetworkID = common.NetworkID(cfg.NetworkID)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ChainEnabled reports whether on-chain mirroring is configured at all.
func (c *Config) ChainEnabled() bool {
	return c.ServerPrivateKey != "" && c.TokenAddress != "" && c.FeederAddress != ""
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}

	if c.LedgerMode != LedgerModeDB && c.LedgerMode != LedgerModeChain {
		return fmt.Errorf("LEDGER_MODE must be %q or %q", LedgerModeDB, LedgerModeChain)
	}

	// Chain ledger mode cannot fall back to the DB balance, so the chain
	// side must be fully configured up front.
	if c.LedgerMode == LedgerModeChain && !c.ChainEnabled() {
		return fmt.Errorf("LEDGER_MODE=chain requires RPC_URL, TOKEN_ADDRESS, CATFEEDER_ADDRESS and SERVER_WALLET_PRIVATE_KEY")
	}

	if c.TokenAddress != "" {
		if _, err := common.HexToAddress(c.TokenAddress); err != nil {
			return fmt.Errorf("invalid TOKEN_ADDRESS format: %w", err)
		}
	}
	if c.FeederAddress != "" {
		if _, err := common.HexToAddress(c.FeederAddress); err != nil {
			return fmt.Errorf("invalid CATFEEDER_ADDRESS format: %w", err)
		}
	}

	if c.DailyAmount <= 0 || c.FeedCost <= 0 || c.MaxDailyFeeds <= 0 {
		return fmt.Errorf("game parameters must be positive")
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
