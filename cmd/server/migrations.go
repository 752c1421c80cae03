package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/woklearn/woklearn-api/internal/platform/postgres"
)

// handleMigrations executes the migration command requested on the command
// line and returns. The server does not start in this mode.
func handleMigrations(db *sql.DB, command string) error {
	slog.Info("Executing migration command", "command", command)

	switch command {
	case "up":
		return postgres.RunMigrations(db)
	case "status":
		return postgres.MigrationStatus(db)
	default:
		return fmt.Errorf("unknown migration command %q (supported: up, status)", command)
	}
}
