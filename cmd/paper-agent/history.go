// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muchan23/paper-research-agent/internal/history"
	"github.com/muchan23/paper-research-agent/internal/search"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and inspect archived searches",
	Long: `History reads the local search archive. Every confirmed search is
recorded with its query, parameters, and results; list shows recent
searches and show prints one in full.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived searches, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one archived search with its results",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum entries to list (0 = all)")
	historyShowCmd.Flags().Bool("json", false, "output the entry as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*history.Store, error) {
	cfg, err := loadAgentConfig()
	if err != nil {
		return nil, err
	}
	if cfg.History.Dir == "" {
		return nil, fmt.Errorf("history is disabled: history.dir is empty")
	}
	return history.NewStore(cfg.History)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No archived searches.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-7s  %s\n", "ID", "When", "Results", "Query")
	for _, e := range entries {
		query := e.Query
		if len(query) > 50 {
			query = query[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-7d  %s\n",
			e.ID, e.CreatedAt.Local().Format(time.DateTime), e.Actual, query)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}

	fmt.Printf("Query:      %s\n", entry.Query)
	if entry.YearFilter != "" {
		fmt.Printf("Years:      %s\n", entry.YearFilter)
	}
	fmt.Printf("Requested:  %d\n", entry.Requested)
	fmt.Printf("Actual:     %d\n", entry.Actual)
	fmt.Printf("Truncated:  %v\n", entry.Truncated)
	if entry.Warning != "" {
		fmt.Printf("Warning:    %s\n", entry.Warning)
	}
	fmt.Printf("When:       %s\n", entry.CreatedAt.Local().Format(time.DateTime))
	fmt.Println()
	fmt.Print(search.FormatTable(entry.Papers))
	return nil
}
