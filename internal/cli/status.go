package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/katoonagu/Aichatinterfacedesign/internal/config"
	"github.com/katoonagu/Aichatinterfacedesign/internal/version"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show EnerChat status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("EnerChat %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("Config:  not found (using defaults)")
					cfg = config.Defaults()
				} else {
					fmt.Printf("Config:  error loading: %v\n", err)
					return nil
				}
			}

			port := cfg.Server.Port
			if port == 0 {
				port = config.DefaultPort
			}
			bind := cfg.Server.Bind
			if bind == "" {
				bind = "loopback"
			}
			fmt.Printf("Server:  port=%d bind=%s\n", port, bind)

			driver := cfg.Store.Driver
			if driver == "" {
				driver = "sqlite"
			}
			fmt.Printf("Store:   driver=%s path=%s\n", driver, paths.DBPath(cfg.Store))

			if cfg.Webhook.URL != "" {
				fmt.Printf("Webhook: configured (timeout %ds)\n", cfg.Webhook.TimeoutSeconds)
			} else {
				fmt.Println("Webhook: not configured")
			}

			if cfg.Client.BaseURL != "" {
				fmt.Printf("Backend: %s — %s\n", cfg.Client.BaseURL, probeBackend(cfg.Client.BaseURL))
			}

			return nil
		},
	}
	return cmd
}

func probeBackend(baseURL string) string {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return "unreachable"
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return "running"
	}
	return fmt.Sprintf("unhealthy (status %d)", resp.StatusCode)
}
