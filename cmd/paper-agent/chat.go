// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/muchan23/paper-research-agent/internal/agent"
	"github.com/muchan23/paper-research-agent/internal/history"
	"github.com/muchan23/paper-research-agent/internal/llm"
	"github.com/muchan23/paper-research-agent/internal/search"
	"github.com/muchan23/paper-research-agent/pkg/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive conversational paper search",
	Long: `Chat starts an interactive conversation. Describe what you are looking
for; the agent asks follow-up questions until it has a topic, then shows
the collected parameters and asks for confirmation before searching.

After a search the session resets automatically so the next message
starts a fresh search. Type "quit" or press Ctrl-D to exit.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("save", "", "save each search's results to this YAML file")
	rootCmd.AddCommand(chatCmd)
}

// buildAgent assembles the full agent from configuration. The returned
// close function releases the history store, when one was opened.
func buildAgent(cfg types.AgentConfig, log zerolog.Logger) (*agent.Agent, func(), error) {
	backend := &llm.ClaudeBackend{
		APIKey: cfg.LLM.APIKey,
		Model:  cfg.LLM.Model,
		Client: &http.Client{Timeout: 60 * time.Second},
	}
	catalog := search.NewOpenAlexClient(cfg.Catalog)

	var hist *history.Store
	closeFn := func() {}
	if cfg.History.Dir != "" {
		var err error
		hist, err = history.NewStore(cfg.History)
		if err != nil {
			return nil, nil, fmt.Errorf("opening history store: %w", err)
		}
		closeFn = func() { hist.Close() }
	}

	return agent.New(cfg, backend, catalog, hist, log), closeFn, nil
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadAgentConfig()
	if err != nil {
		return err
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}
	savePath, _ := cmd.Flags().GetString("save")

	log := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	a, closeAgent, err := buildAgent(cfg, log)
	if err != nil {
		return err
	}
	defer closeAgent()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("What papers are you looking for? (type \"quit\" to exit)")

	sessionID := ""
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		id, reply, err := a.StartOrContinue(ctx, sessionID, line)
		if err != nil {
			return err
		}
		sessionID = id
		fmt.Println(reply.Text)

		if !reply.ReadyToSearch {
			continue
		}

		if !confirm(scanner) {
			fmt.Println("Okay, tell me more or adjust the search.")
			continue
		}

		outcome, err := a.ConfirmSearch(ctx, sessionID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			fmt.Println("You can adjust the search and try again.")
			continue
		}

		fmt.Print(search.FormatTable(outcome.Result.Papers))
		fmt.Println()
		fmt.Print(outcome.Summary)

		if savePath != "" {
			req := search.PageRequest{
				Query:      reply.Parameters.Query,
				YearFilter: reply.Parameters.YearFilter,
				Sort:       cfg.Catalog.Sort,
			}
			if err := search.WriteResultFile(savePath, req, outcome.Result.Requested, outcome.Result); err != nil {
				fmt.Fprintf(os.Stderr, "Could not save results: %v\n", err)
			} else {
				fmt.Printf("\nSaved results to %s\n", savePath)
			}
		}

		// Start fresh for the next search.
		if err := a.Reset(sessionID); err != nil {
			return err
		}
		fmt.Println("\nAnything else you want to search for?")
	}
}

// confirm asks the y/n question for a pending search.
func confirm(scanner *bufio.Scanner) bool {
	fmt.Print("[y/N] ")
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
