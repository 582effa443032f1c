package cli

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tmills/rosterd/internal/config"
	"github.com/tmills/rosterd/internal/database"
	"github.com/tmills/rosterd/internal/database/accounts"
	"github.com/tmills/rosterd/internal/database/sessions"
)

// ListAccountsCommand prints all accounts with their roles and live session
// counts.
type ListAccountsCommand struct {
	DatabasePath string
}

func NewListAccountsCommand() *ListAccountsCommand {
	return &ListAccountsCommand{}
}

func (cmd *ListAccountsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list-accounts", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list-accounts [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List all accounts in the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ListAccountsCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", cmd.DatabasePath)
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

	accountRepo := accounts.NewRepository(db.DB)
	sessionRepo := sessions.NewRepository(db.DB)

	all, err := accountRepo.List()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(all) == 0 {
		fmt.Println("No accounts found.")
		return nil
	}

	fmt.Printf("%-5s %-40s %-12s %s\n", "ID", "EMAIL", "ROLE", "SESSIONS")
	for _, account := range all {
		count, err := sessionRepo.CountForAccount(account.ID)
		if err != nil {
			return fmt.Errorf("failed to count sessions: %w", err)
		}
		fmt.Printf("%-5d %-40s %-12s %d\n", account.ID, account.Email, account.Role, count)
	}

	return nil
}
