package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/codereview-agent/codereview/internal/chat"
	"github.com/codereview-agent/codereview/internal/config"
	"github.com/codereview-agent/codereview/internal/providers"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Provider and model management",
}

type modelInfo struct {
	Provider string
	Models   []string
}

var knownModels = []modelInfo{
	{
		Provider: "openai",
		Models: []string{
			"gpt-4",
			"gpt-4o",
			"gpt-4.1-mini",
			"o3-mini",
		},
	},
	{
		Provider: "anthropic",
		Models: []string{
			"claude-sonnet-4-6",
			"claude-opus-4-6",
			"claude-haiku-4-5",
		},
	},
	{
		Provider: "ollama",
		Models: []string{
			"llama3.1",
			"llama3.3",
			"codellama",
			"qwen2.5-coder",
			"deepseek-coder-v2",
		},
	},
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known providers and models",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, info := range knownModels {
			fmt.Fprintf(out, "%s:\n", info.Provider)
			for _, m := range info.Models {
				marker := ""
				if m == config.DefaultModel(info.Provider) {
					marker = " (default)"
				}
				fmt.Fprintf(out, "  - %s%s\n", m, marker)
			}
			fmt.Fprintln(out)
		}
	},
}

var modelsDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate provider credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Checking %s (%s)...\n", cfg.Provider, cfg.Model)

		p, err := newCompleter(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
			if env := providers.KeyEnv(cfg.Provider); env != "" && cfg.APIKey == "" {
				fmt.Fprintf(os.Stderr, "Set %s and try again.\n", env)
			}
			exitCode = ExitAuthError
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, err = p.Complete(ctx, chat.Request{
			Model: cfg.Model,
			Messages: []chat.Message{
				chat.NewMessage(chat.RoleSystem, "Respond with exactly: ok"),
				chat.NewMessage(chat.RoleUser, "ping"),
			},
			MaxTokens: 10,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
			if providers.IsAuthError(err) {
				exitCode = ExitAuthError
			} else {
				exitCode = ExitRuntimeError
			}
			return nil
		}

		fmt.Fprintf(out, "OK: %s is configured and responding\n", cfg.Provider)
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsDoctorCmd)
}
