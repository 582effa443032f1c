package cli

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tmills/rosterd/internal/auth"
	"github.com/tmills/rosterd/internal/config"
	"github.com/tmills/rosterd/internal/configs"
	"github.com/tmills/rosterd/internal/database"
	"github.com/tmills/rosterd/internal/entities"
)

// AddAccountCommand creates an account from the command line, typically the
// first administrator on a fresh install.
type AddAccountCommand struct {
	Email        string
	Password     string
	Role         string
	DatabasePath string
}

func NewAddAccountCommand() *AddAccountCommand {
	return &AddAccountCommand{}
}

func (cmd *AddAccountCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add-account", flag.ExitOnError)

	fs.StringVar(&cmd.Email, "email", "", "Email address for the new account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password for the new account (required)")
	fs.StringVar(&cmd.Role, "role", string(entities.RoleAdmin), "Role: read, supervisor or admin")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add-account [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an account directly in the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s add-account -email admin@example.com -password secret123\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s add-account -email viewer@example.com -password secret123 -role read\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("email and password are required")
	}

	return nil
}

func (cmd *AddAccountCommand) Run() error {
	role := entities.Role(cmd.Role)
	if !role.Valid() {
		return fmt.Errorf("invalid role %q: must be read, supervisor or admin", cmd.Role)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	cfg := config.NewConfig()
	lifecycle := configs.NewLifecycle(db.DB)
	service := auth.NewService(db.DB, lifecycle, cfg.Auth)

	account, err := service.CreateAccount(cmd.Email, cmd.Password, role)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	fmt.Printf("Created account %d (%s) with role %s\n", account.ID, account.Email, account.Role)
	return nil
}
