package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/0xZumii/cat-tv/internal/blockchain"
	"github.com/0xZumii/cat-tv/internal/cattv"
	"github.com/0xZumii/cat-tv/internal/config"
	"github.com/0xZumii/cat-tv/internal/http_api"
	"github.com/0xZumii/cat-tv/internal/mediastore"
	"github.com/0xZumii/cat-tv/internal/models"
	"github.com/0xZumii/cat-tv/internal/notificator"
	"github.com/0xZumii/cat-tv/internal/payments"
	"github.com/0xZumii/cat-tv/internal/repository"
	"github.com/0xZumii/cat-tv/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "cattv",
		Usage: "Cat TV is a social cat-feeding service with an on-chain mirror",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.StringFlag{Name: "rpc-url", Aliases: []string{"r"}, Usage: "Blockchain RPC URL"},
			&cli.StringFlag{Name: "token-address", Usage: "CATTV token contract address"},
			&cli.StringFlag{Name: "feeder-address", Usage: "CatFeeder contract address"},
			&cli.StringFlag{Name: "ledger-mode", Aliases: []string{"l"}, Usage: "Ledger mode: db or chain"},
			&cli.IntFlag{Name: "api-port", Usage: "API port"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("rpc-url") {
		cfg.RPCURL = c.String("rpc-url")
	}
	if c.IsSet("token-address") {
		cfg.TokenAddress = c.String("token-address")
	}
	if c.IsSet("feeder-address") {
		cfg.FeederAddress = c.String("feeder-address")
	}
	if c.IsSet("ledger-mode") {
		cfg.LedgerMode = c.String("ledger-mode")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize blockchain service
	chain := blockchain.NewGocore(log, cfg)
	if err := chain.Run(); err != nil {
		return fmt.Errorf("failed to start blockchain service: %v", err)
	}
	defer chain.Close()

	// Initialize payment provider
	provider := payments.NewStripeProvider(log, cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	// Initialize media store
	media, err := mediastore.NewStore(log, cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize media store: %v", err)
	}

	// Initialize notificator (optional)
	var notifier models.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		telegram, err := notificator.NewTelegramNotificator(log, cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram notificator: %v", err)
		}
		notifier = notificator.NewNotificator(log, telegram)
	}

	// Create CatTV instance
	catTVApp := cattv.NewCatTV(db, chain, provider, notifier, log, cfg)

	apiServer := http_api.NewHTTPServer(catTVApp, provider, media, cfg, log)

	go apiServer.Start()
	// Start the background maintenance loops
	catTVApp.Start()

	// Wait for termination
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	catTVApp.Stop()
	if err := apiServer.Shutdown(); err != nil {
		log.Error("Failed to shut down API server: ", err)
	}

	return nil
}
