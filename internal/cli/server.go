package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/katoonagu/Aichatinterfacedesign/internal/config"
	"github.com/katoonagu/Aichatinterfacedesign/internal/logging"
	"github.com/katoonagu/Aichatinterfacedesign/internal/server"
	"github.com/katoonagu/Aichatinterfacedesign/internal/store"
	"github.com/katoonagu/Aichatinterfacedesign/internal/webhook"
)

func newServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Manage the chat backend server",
	}

	cmd.AddCommand(newServerRunCmd())
	return cmd
}

func newServerRunCmd() *cobra.Command {
	var (
		port       int
		bind       string
		webhookURL string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the chat backend server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}
			if webhookURL != "" {
				cfg.Webhook.URL = webhookURL
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if logLevel == "" && cfg.Logging.Level != "" {
				log = logging.NewStyled(cfg.Logging.ConsoleStyle, cfg.Logging.Level)
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("creating directories: %w", err)
			}

			var messages store.MessageStore
			if cfg.Store.Driver == "memory" {
				messages = store.NewMemoryMessageStore()
				log.Info().Msg("using in-memory message store")
			} else {
				dbPath := paths.DBPath(cfg.Store)
				db, err := store.Open(dbPath, log)
				if err != nil {
					return fmt.Errorf("opening database: %w", err)
				}
				defer db.Close()
				messages = store.NewSQLiteMessageStore(db)
				log.Info().Str("path", dbPath).Msg("using SQLite message store")
			}

			var assist *webhook.Client
			if cfg.Webhook.URL != "" {
				timeout := time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second
				assist = webhook.NewClient(cfg.Webhook.URL, timeout, log)
			} else {
				log.Warn().Msg("no webhook URL configured — /assist will be unavailable")
			}

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg, messages, assist, log)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")
	cmd.Flags().StringVar(&webhookURL, "webhook-url", "", "override automation webhook URL")

	return cmd
}
