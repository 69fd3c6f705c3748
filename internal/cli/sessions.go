package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katoonagu/Aichatinterfacedesign/internal/chatapi"
	"github.com/katoonagu/Aichatinterfacedesign/internal/config"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List and manage saved chat sessions",
	}

	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsClearCmd())
	return cmd
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := backendClient()
			if err != nil {
				return err
			}
			sessions := client.ListSessions(cmd.Context())
			if len(sessions) == 0 {
				fmt.Println("No saved sessions.")
				return nil
			}
			for _, s := range sessions {
				fmt.Printf("%s  %s\n    %s\n", s.Date.Local().Format("2006-01-02 15:04"), s.ID, s.Title)
			}
			return nil
		},
	}
}

func newSessionsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <session-id>",
		Short: "Delete all messages of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := backendClient()
			if err != nil {
				return err
			}
			client.ClearHistory(cmd.Context(), args[0])
			fmt.Printf("Cleared %s\n", args[0])
			return nil
		},
	}
}

func backendClient() (*chatapi.Client, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		cfg = config.Defaults()
	}
	if cfg.Client.BaseURL == "" {
		return nil, fmt.Errorf("client.base_url is not configured")
	}
	return chatapi.NewClient(cfg.Client.BaseURL, log), nil
}
