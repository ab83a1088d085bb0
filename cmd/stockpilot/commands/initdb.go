package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the database schema",
	Long: `Connects to PostgreSQL and creates the schema and tables if they do
not exist. Idempotent. Requires DATABASE_URL.

Example:
  stockpilot initdb`,
	RunE: runInitDB,
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	db, _, err := openDatabase(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Database schema ready.")
	return nil
}
