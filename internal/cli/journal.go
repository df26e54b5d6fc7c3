package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/weavehq/weave/internal/store"
)

var (
	journalBody string
	journalMood string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Journal about your social life",
}

var journalAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a journal entry",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runJournalAdd,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent journal entries",
	RunE:  runJournalList,
}

func init() {
	journalAddCmd.Flags().StringVarP(&journalBody, "body", "b", "", "Entry body (markdown)")
	journalAddCmd.Flags().StringVarP(&journalMood, "mood", "m", "", "Mood")
	journalAddCmd.MarkFlagRequired("body")

	journalCmd.AddCommand(journalAddCmd)
	journalCmd.AddCommand(journalListCmd)
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	entry := &store.JournalEntry{
		Title: strings.Join(args, " "),
		Body:  journalBody,
		Mood:  journalMood,
	}
	if err := db.CreateJournalEntry(entry); err != nil {
		return err
	}
	fmt.Printf("Saved entry for %s.\n", entry.EntryDate)
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	entries, err := db.ListJournalEntries(10)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No journal entries yet.")
		return nil
	}

	for _, e := range entries {
		mood := ""
		if e.Mood != "" {
			mood = " [" + e.Mood + "]"
		}
		fmt.Printf("%s  %s%s\n", e.EntryDate, e.Title, mood)
	}
	return nil
}
