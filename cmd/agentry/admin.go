package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/agentry-dev/agentry/internal/adapter/postgres"
	"github.com/agentry-dev/agentry/internal/config"
	"github.com/agentry-dev/agentry/internal/domain/user"
	"github.com/agentry-dev/agentry/internal/port/database"
	"github.com/agentry-dev/agentry/internal/service"
)

// runAdmin dispatches admin subcommands (create-user, create-api-key).
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "create-user":
		return runAdminCreateUser(args[1:])
	case "create-api-key":
		return runAdminCreateAPIKey(args[1:])
	case "list-agents":
		return runAdminListAgents(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: agentry admin <command> [options]

Commands:
  create-user      Create a new user account
  create-api-key   Mint an API key for an existing user
  list-agents      List all persisted agents
  help             Show this help message

Examples:
  agentry admin create-user --username ada --email ada@example.com
  agentry admin create-api-key --username ada --name ci-deploy
  agentry admin list-agents
`)
}

func loadAdminDeps() (*service.AuthService, database.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	store := postgres.NewStore(pool)
	authSvc := service.NewAuthService(store, &cfg.Auth)

	cleanup := func() {
		pool.Close()
	}
	return authSvc, store, cleanup, nil
}

func runAdminCreateUser(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	username := fs.String("username", "", "login name (required)")
	email := fs.String("email", "", "email address (required)")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		return fmt.Errorf("--username is required")
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	pass := *password
	if pass == "" {
		var err error
		pass, err = promptPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if pass != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	authSvc, _, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	u, err := authSvc.Register(ctx, &user.CreateRequest{
		Username: *username,
		Email:    *email,
		Password: pass,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(os.Stderr, "User created: %s (id=%s)\n", u.Username, u.ID)
	return nil
}

func runAdminCreateAPIKey(args []string) error {
	fs := flag.NewFlagSet("create-api-key", flag.ContinueOnError)
	username := fs.String("username", "", "owner's login name (required)")
	name := fs.String("name", "", "key label (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		return fmt.Errorf("--username is required")
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	authSvc, store, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	u, err := store.GetUserByUsername(ctx, *username)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}

	resp, err := authSvc.CreateAPIKey(ctx, u.ID, user.CreateAPIKeyRequest{Name: *name})
	if err != nil {
		return fmt.Errorf("create api key: %w", err)
	}

	// The raw key is only recoverable here; the server stores a hash.
	fmt.Fprintf(os.Stderr, "API key created for %s (label=%s)\n", u.Username, *name)
	fmt.Println(resp.Key)
	return nil
}

func runAdminListAgents(args []string) error {
	fs := flag.NewFlagSet("list-agents", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, store, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	records, err := store.ListAgents(ctx)
	if err != nil {
		return fmt.Errorf("list agents: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No agents found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATE\tLAST_ACTIVE")
	for i := range records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			records[i].ID, records[i].Name, records[i].Type, records[i].State,
			records[i].LastActive.Format(time.RFC3339))
	}
	return w.Flush()
}

// promptPassword reads a password from the terminal without echoing.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // int conversion needed on some platforms
	fmt.Fprintln(os.Stderr)                         // newline after password input
	if err != nil {
		return "", err
	}
	return string(b), nil
}
