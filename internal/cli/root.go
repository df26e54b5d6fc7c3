package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/weavehq/weave/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "weave",
	Short: "Keep your friendships warm",
	Long:  "Weave tracks who you spend time with, scores each friendship's health, and nudges you toward the people who need you. Single Go binary, local database.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(friendCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(seasonCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(batteryCmd)
	rootCmd.AddCommand(journalCmd)
}

// openDB is a helper that opens the database for CLI commands.
func openDB() (*store.DB, error) {
	dbPath := os.Getenv("WEAVE_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}
