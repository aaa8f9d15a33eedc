// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/muchan23/paper-research-agent/internal/secrets"
	"github.com/muchan23/paper-research-agent/pkg/types"
)

func init() {
	viper.SetDefault("catalog.timeout", 30*time.Second)
	viper.SetDefault("catalog.user_agent", "paper-agent/"+version)
	viper.SetDefault("catalog.page_size", 25)
	viper.SetDefault("catalog.max_page_size", 200)
	viper.SetDefault("catalog.max_retries", 5)
	viper.SetDefault("catalog.sort", "publication_date:desc")

	viper.SetDefault("llm.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("llm.max_retries", 2)

	viper.SetDefault("dialog.default_max_results", 25)
	viper.SetDefault("dialog.max_results_ceiling", 500)
	viper.SetDefault("dialog.history_window", 10)
	viper.SetDefault("dialog.optimize_queries", true)
	viper.SetDefault("dialog.optimize_threshold", 50)

	viper.SetDefault("retrieval.max_pages", 0)

	viper.SetDefault("history.dir", "history")

	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.allowed_origins", []string{"*"})
}

// loadAgentConfig builds the full agent configuration from viper (config
// file, PAPER_AGENT_* environment, defaults), with the API key and
// catalog email falling back to the environment and .secrets/ files.
func loadAgentConfig() (types.AgentConfig, error) {
	cfg := types.AgentConfig{
		Catalog: types.CatalogConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("catalog.timeout"),
				UserAgent: viper.GetString("catalog.user_agent"),
			},
			Email:       viper.GetString("catalog.email"),
			PageSize:    viper.GetInt("catalog.page_size"),
			MaxPageSize: viper.GetInt("catalog.max_page_size"),
			MaxRetries:  viper.GetInt("catalog.max_retries"),
			Sort:        viper.GetString("catalog.sort"),
		},
		LLM: types.LLMConfig{
			Model:      viper.GetString("llm.model"),
			APIKey:     viper.GetString("llm.api_key"),
			MaxRetries: viper.GetInt("llm.max_retries"),
		},
		Dialog: types.DialogConfig{
			DefaultMaxResults: viper.GetInt("dialog.default_max_results"),
			MaxResultsCeiling: viper.GetInt("dialog.max_results_ceiling"),
			HistoryWindow:     viper.GetInt("dialog.history_window"),
			OptimizeQueries:   viper.GetBool("dialog.optimize_queries"),
			OptimizeThreshold: viper.GetInt("dialog.optimize_threshold"),
		},
		Retrieval: types.RetrievalConfig{
			MaxPages: viper.GetInt("retrieval.max_pages"),
		},
		History: types.HistoryConfig{
			Dir: viper.GetString("history.dir"),
		},
		Server: types.ServerConfig{
			Port:           viper.GetString("server.port"),
			AllowedOrigins: viper.GetStringSlice("server.allowed_origins"),
		},
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	cfg.LLM.APIKey = secrets.Default(loadedSecrets, "anthropic-api-key", cfg.LLM.APIKey)

	if cfg.Catalog.Email == "" {
		cfg.Catalog.Email = os.Getenv("OPENALEX_EMAIL")
	}
	cfg.Catalog.Email = secrets.Default(loadedSecrets, "openalex-email", cfg.Catalog.Email)

	return cfg, nil
}

// requireAPIKey fails with guidance when no language-model key is
// configured. Commands that talk to the model call this up front so the
// user is not surprised mid-conversation.
func requireAPIKey(cfg types.AgentConfig) error {
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("no API key configured: set ANTHROPIC_API_KEY, add .secrets/anthropic-api-key, or set llm.api_key in the config file")
	}
	return nil
}
