package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/weavehq/weave/internal/engine"
	"github.com/weavehq/weave/internal/store"
)

var (
	logCategory string
	logVibe     string
	logNote     string
)

var logCmd = &cobra.Command{
	Use:   "log [friend-id...]",
	Short: "Log a weave with one or more friends",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().StringVarP(&logCategory, "category", "c", "message", "Category: call, message, hangout, activity, favor, celebration")
	logCmd.Flags().StringVarP(&logVibe, "vibe", "v", "neutral", "Vibe: drained, neutral, good, energizing")
	logCmd.Flags().StringVarP(&logNote, "note", "n", "", "Optional note")
}

func runLog(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	var names []string
	for _, fid := range args {
		f, err := db.GetFriend(fid)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("friend %s not found", fid)
		}
		names = append(names, f.Name)
	}

	weave := &store.Weave{
		Category:  logCategory,
		Vibe:      logVibe,
		Note:      logNote,
		FriendIDs: args,
	}
	if err := db.CreateWeave(weave); err != nil {
		return err
	}

	boost := engine.WeaveBoost(weave.Category, weave.Vibe)
	for _, fid := range weave.FriendIDs {
		if err := db.BoostScore(fid, boost, weave.HappenedAt); err != nil {
			return err
		}
	}

	fmt.Printf("Wove a %s (%s) with %d friend(s): +%.1f each\n", weave.Category, weave.Vibe, len(names), boost)
	return nil
}
