package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyClear bool

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [document-id]",
	Short: "List or inspect stored verdicts",
	Long: `History lists the verdicts recorded by previous validate and batch
runs. Given a document id it prints that verdict in full.

Example:
  verdict history
  verdict history RPT-2026-0142
  verdict history --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all stored verdicts")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := historyStore(cfg)
	if store == nil {
		return fmt.Errorf("history is disabled in configuration")
	}

	if historyClear {
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("history cleared")
		return nil
	}

	if len(args) == 1 {
		result, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("no stored verdict for %q", args[0])
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	entries, err := store.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no stored verdicts")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-14s %s\n", e.ValidatedAt.Format("2006-01-02 15:04"), e.Status, e.DocumentID)
	}
	return nil
}
