package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/katoonagu/Aichatinterfacedesign/internal/chatapi"
	"github.com/katoonagu/Aichatinterfacedesign/internal/config"
	"github.com/katoonagu/Aichatinterfacedesign/internal/domain"
	"github.com/katoonagu/Aichatinterfacedesign/internal/flow"
	"github.com/katoonagu/Aichatinterfacedesign/internal/identity"
	"github.com/katoonagu/Aichatinterfacedesign/internal/webhook"
)

func newChatCmd() *cobra.Command {
	var (
		domainName string
		sessionID  string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				cfg = config.Defaults()
			}

			d, err := resolveDomain(domainName, cfg)
			if err != nil {
				return err
			}

			if cfg.Webhook.URL == "" {
				return fmt.Errorf("no webhook URL configured; set webhook.url or pass ENERCHAT_WEBHOOK_URL")
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("creating directories: %w", err)
			}

			ident := identity.NewManager(paths.Identity, log)
			userID, err := ident.UserID()
			if err != nil {
				return fmt.Errorf("resolving user identity: %w", err)
			}

			resuming := sessionID != ""
			if sessionID == "" {
				sessionID = identity.NewSessionID(userID, d, time.Now())
			}

			store := chatapi.NewClient(cfg.Client.BaseURL, log)
			timeout := time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second
			assist := webhook.NewClient(cfg.Webhook.URL, timeout, log)
			f := flow.New(store, assist, sessionID, log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if resuming {
				f.LoadHistory(ctx)
				for _, m := range f.Messages() {
					printMessage(m)
				}
			}

			return runREPL(ctx, f, store, userID, d)
		},
	}

	cmd.Flags().StringVar(&domainName, "domain", "", "knowledge domain (transformers, substations, equipment, general)")
	cmd.Flags().StringVar(&sessionID, "session", "", "resume an existing session by ID")

	return cmd
}

func resolveDomain(name string, cfg config.Config) (domain.Domain, error) {
	if name == "" {
		name = cfg.Client.Domain
	}
	if name == "" {
		return domain.DomainGeneral, nil
	}
	return domain.ParseDomain(name)
}

// runREPL reads lines from stdin and drives the submission flow. A line
// ending in a backslash continues onto the next line.
func runREPL(ctx context.Context, f *flow.Flow, store *chatapi.Client, userID string, d domain.Domain) error {
	fmt.Printf("EnerChat (%s). Type /help for commands, /quit to exit.\n", d)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pending strings.Builder
	for {
		if pending.Len() == 0 {
			fmt.Print("> ")
		} else {
			fmt.Print("... ")
		}

		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Text()
		if trimmed := strings.TrimRight(line, " \t"); strings.HasSuffix(trimmed, "\\") {
			pending.WriteString(strings.TrimSuffix(trimmed, "\\"))
			pending.WriteString("\n")
			continue
		}
		pending.WriteString(line)
		input := pending.String()
		pending.Reset()

		if strings.HasPrefix(strings.TrimSpace(input), "/") {
			quit, err := handleSlashCommand(ctx, f, store, userID, &d, strings.TrimSpace(input))
			if err != nil {
				fmt.Println(err)
			}
			if quit {
				return nil
			}
			continue
		}

		if !f.Submit(input) {
			if f.Awaiting() {
				fmt.Println("(still thinking, please wait)")
			}
			continue
		}
		waitAndPrintAnswer(ctx, f)
	}
}

func handleSlashCommand(ctx context.Context, f *flow.Flow, store *chatapi.Client, userID string, d *domain.Domain, input string) (quit bool, err error) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		fmt.Println(`Commands:
  /new [domain]   start a new chat, optionally switching domain
  /sessions       list saved sessions
  /open <id>      open a saved session
  /resync         push the current transcript back to the server
  /clear          clear the current session
  /quit           exit`)

	case "/new":
		if len(fields) > 1 {
			nd, perr := domain.ParseDomain(fields[1])
			if perr != nil {
				return false, perr
			}
			*d = nd
		}
		f.StartNew(identity.NewSessionID(userID, *d, time.Now()))
		fmt.Printf("New chat (%s): %s\n", *d, f.SessionID())

	case "/sessions":
		sessions := store.ListSessions(ctx)
		if len(sessions) == 0 {
			fmt.Println("No saved sessions.")
			break
		}
		for _, s := range sessions {
			fmt.Printf("%s  %s  %s\n", s.Date.Local().Format("2006-01-02 15:04"), s.ID, s.Title)
		}

	case "/open":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /open <session-id>")
		}
		f.SwitchSession(ctx, fields[1])
		for _, m := range f.Messages() {
			printMessage(m)
		}

	case "/resync":
		f.Resync(ctx)
		fmt.Println("Transcript synced.")

	case "/clear":
		f.Clear(ctx)
		fmt.Println("Session cleared.")

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
	return false, nil
}

func waitAndPrintAnswer(ctx context.Context, f *flow.Flow) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for f.Awaiting() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}

	msgs := f.Messages()
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	if last.Role == domain.RoleAssistant {
		printMessage(last)
	} else {
		fmt.Println("(no answer — the assistant is unavailable)")
	}
}

func printMessage(m domain.Message) {
	switch m.Role {
	case domain.RoleUser:
		fmt.Printf("you: %s\n", m.Content)
	case domain.RoleAssistant:
		fmt.Printf("assistant: %s\n", m.Content)
		for _, s := range m.Sources {
			fmt.Printf("  [%s] %s\n", s.Kind, s.Title)
		}
	}
}
