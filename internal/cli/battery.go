package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var batteryNote string

var batteryCmd = &cobra.Command{
	Use:   "battery [level]",
	Short: "Log your social battery (0-100), or show recent readings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBattery,
}

func init() {
	batteryCmd.Flags().StringVarP(&batteryNote, "note", "n", "", "Optional note")
}

func runBattery(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if len(args) == 0 {
		since := time.Now().AddDate(0, 0, -7).UnixMilli()
		logs, err := db.ListBatteryLogs(since)
		if err != nil {
			return err
		}
		if len(logs) == 0 {
			fmt.Println("No battery readings in the last 7 days.")
			return nil
		}
		for _, l := range logs {
			bar := strings.Repeat("█", l.Level/10)
			fmt.Printf("%s  %3d %s\n", time.UnixMilli(l.LoggedAt).Format("01-02 15:04"), l.Level, bar)
		}
		return nil
	}

	level, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("level must be a number 0-100")
	}
	if _, err := db.AddBatteryLog(level, batteryNote); err != nil {
		return err
	}
	fmt.Printf("Logged battery at %d.\n", level)
	return nil
}
