package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/weavehq/weave/internal/engine"
)

var seasonRecompute bool

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Show the current social season",
	RunE:  runSeason,
}

func init() {
	seasonCmd.Flags().BoolVar(&seasonRecompute, "recompute", false, "Recompute before showing")
}

func runSeason(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	eng := engine.New(db)
	now := time.Now()

	if seasonRecompute {
		if _, err := eng.RefreshScores(now); err != nil {
			return err
		}
		if _, err := eng.RecomputeSeason(now); err != nil {
			return err
		}
	}

	profile, err := db.GetProfile()
	if err != nil {
		return err
	}

	fmt.Printf("Season: %s (score %.1f)\n", profile.Season, profile.SeasonScore)
	fmt.Printf("  since %s\n", time.UnixMilli(profile.SeasonSince).Format("2006-01-02"))
	if profile.SeasonOverride != "" && profile.SeasonOverrideUntil != nil {
		fmt.Printf("  override: %s until %s\n", profile.SeasonOverride,
			time.UnixMilli(*profile.SeasonOverrideUntil).Format("2006-01-02"))
	}

	logs, err := db.ListSeasonLogs(5)
	if err != nil {
		return err
	}
	if len(logs) > 0 {
		fmt.Println("\nRecent transitions:")
		for _, l := range logs {
			fmt.Printf("  %s  %s → %s (%.1f, %s)\n",
				time.UnixMilli(l.CreatedAt).Format("2006-01-02"),
				l.FromSeason, l.ToSeason, l.Score, l.Reason)
		}
	}
	return nil
}
