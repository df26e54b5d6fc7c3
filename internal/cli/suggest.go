package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/weavehq/weave/internal/engine"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show who to reach out to today",
	RunE:  runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	eng := engine.New(db)
	now := time.Now()

	season, err := eng.CurrentSeason(now)
	if err != nil {
		return err
	}
	suggestions, err := eng.Suggestions(now)
	if err != nil {
		return err
	}

	if len(suggestions) == 0 {
		fmt.Printf("Nothing to nudge — enjoy your %s season.\n", season)
		return nil
	}

	fmt.Printf("Suggestions (%s season):\n\n", season)
	for i, s := range suggestions {
		fmt.Printf("%d. [%s/%s] %s\n", i+1, s.Urgency, s.Category, s.Text)
	}
	return nil
}
