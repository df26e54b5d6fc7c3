package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/weavehq/weave/internal/engine"
	"github.com/weavehq/weave/internal/store"
)

var friendCmd = &cobra.Command{
	Use:   "friend",
	Short: "Manage friends",
}

var (
	friendTier      string
	friendArchetype string
	friendBirthday  string
	friendListTier  string
)

var friendAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a friend",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFriendAdd,
}

var friendListCmd = &cobra.Command{
	Use:   "list",
	Short: "List friends with their current scores",
	RunE:  runFriendList,
}

var friendShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one friend in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runFriendShow,
}

var friendArchiveCmd = &cobra.Command{
	Use:   "archive [id]",
	Short: "Archive a friend",
	Args:  cobra.ExactArgs(1),
	RunE:  runFriendArchive,
}

func init() {
	friendAddCmd.Flags().StringVarP(&friendTier, "tier", "t", "community", "Dunbar tier: inner, close, community")
	friendAddCmd.Flags().StringVarP(&friendArchetype, "archetype", "a", "anchor", "Archetype: anchor, spark, mirror, compass, wildcard")
	friendAddCmd.Flags().StringVarP(&friendBirthday, "birthday", "b", "", "Birthday (MM-DD)")
	friendListCmd.Flags().StringVarP(&friendListTier, "tier", "t", "", "Filter by tier")

	friendCmd.AddCommand(friendAddCmd)
	friendCmd.AddCommand(friendListCmd)
	friendCmd.AddCommand(friendShowCmd)
	friendCmd.AddCommand(friendArchiveCmd)
}

func runFriendAdd(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	f := &store.Friend{
		Name:      strings.Join(args, " "),
		Tier:      friendTier,
		Archetype: friendArchetype,
		Birthday:  friendBirthday,
	}
	if err := db.CreateFriend(f); err != nil {
		return err
	}

	fmt.Printf("Added %s (%s, %s) — id %s\n", f.Name, f.Tier, f.Archetype, f.ID)
	return nil
}

func runFriendList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	friends, err := db.ListFriends(friendListTier)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		fmt.Println("No friends yet. Add one with: weave friend add")
		return nil
	}

	now := time.Now()
	for _, f := range friends {
		score := engine.DecayedScore(f.WeaveScore, f.ScoreUpdatedAt, f.Tier, now)
		last := "never"
		if f.LastWeaveAt != nil {
			last = time.UnixMilli(*f.LastWeaveAt).Format("2006-01-02")
		}
		fmt.Printf("%5.1f  %-10s %-20s last weave: %s\n", score, f.Tier, f.Name, last)
	}
	return nil
}

func runFriendShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	f, err := db.GetFriend(args[0])
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("friend %s not found", args[0])
	}

	now := time.Now()
	score := engine.DecayedScore(f.WeaveScore, f.ScoreUpdatedAt, f.Tier, now)
	fmt.Printf("%s\n", f.Name)
	fmt.Printf("  tier:      %s\n", f.Tier)
	fmt.Printf("  archetype: %s\n", f.Archetype)
	fmt.Printf("  score:     %.1f\n", score)
	if f.Birthday != "" {
		fmt.Printf("  birthday:  %s\n", f.Birthday)
	}
	if f.LastWeaveAt != nil {
		fmt.Printf("  last weave: %s\n", time.UnixMilli(*f.LastWeaveAt).Format("2006-01-02"))
	}

	since := now.AddDate(0, 0, -30).UnixMilli()
	weaves, err := db.ListWeaves(f.ID, since)
	if err != nil {
		return err
	}
	if len(weaves) > 0 {
		fmt.Printf("\n  Last 30 days (%d weaves):\n", len(weaves))
		for _, wv := range weaves {
			fmt.Printf("    %s  %-12s %s\n", time.UnixMilli(wv.HappenedAt).Format("2006-01-02"), wv.Category, wv.Vibe)
		}
	}
	return nil
}

func runFriendArchive(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := db.ArchiveFriend(args[0]); err != nil {
		return err
	}
	fmt.Println("Archived.")
	return nil
}
