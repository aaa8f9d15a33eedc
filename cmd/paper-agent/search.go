// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muchan23/paper-research-agent/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "One-shot catalog search without the conversation",
	Long: `Search runs a single catalog query directly from flags, skipping the
dialog. Results are paginated and deduplicated the same way a confirmed
conversational search is.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "search query (required)")
	searchCmd.Flags().String("year", "", "year filter, e.g. >=2020 or 2020-2023")
	searchCmd.Flags().Int("max-results", 25, "maximum number of results")
	searchCmd.Flags().String("sort", "", "catalog sort key (default from config)")
	searchCmd.Flags().Bool("json", false, "output the full result as JSON")
	searchCmd.Flags().String("save", "", "save results to this YAML file")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		return fmt.Errorf("--query is required")
	}
	year, _ := cmd.Flags().GetString("year")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	sortKey, _ := cmd.Flags().GetString("sort")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	savePath, _ := cmd.Flags().GetString("save")

	cfg, err := loadAgentConfig()
	if err != nil {
		return err
	}
	if sortKey == "" {
		sortKey = cfg.Catalog.Sort
	}
	if ceiling := cfg.Dialog.MaxResultsCeiling; ceiling > 0 && maxResults > ceiling {
		maxResults = ceiling
	}

	catalog := search.NewOpenAlexClient(cfg.Catalog)
	req := search.PageRequest{
		Query:      query,
		YearFilter: year,
		Sort:       sortKey,
		PerPage:    cfg.Catalog.PageSize,
	}

	res, err := search.Retrieve(context.Background(), catalog, req, maxResults, cfg.Retrieval)
	if err != nil {
		return err
	}

	if jsonOutput {
		out, err := search.FormatJSON(res)
		if err != nil {
			return err
		}
		fmt.Print(out)
	} else {
		fmt.Print(search.FormatTable(res.Papers))
		fmt.Println()
		fmt.Print(search.Summary(res))
	}

	if savePath != "" {
		if err := search.WriteResultFile(savePath, req, maxResults, res); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved results to %s\n", savePath)
	}
	return nil
}
