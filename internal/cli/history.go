package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/codereview-agent/codereview/internal/config"
	"github.com/codereview-agent/codereview/internal/output"
	"github.com/codereview-agent/codereview/internal/store"
	"github.com/spf13/cobra"
)

var (
	flagHistoryLimit  int
	flagHistoryFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse stored review transcripts",
}

// openHistory opens the transcript database named by the effective config,
// even when recording is switched off.
func openHistory() (*store.Store, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return nil, err
	}
	path := cfg.History.Path
	if path == "" {
		dir, err := config.DataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "history.db")
	}
	return store.Open(path, cfg.Provider, cfg.Model)
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory()
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.List(context.Background(), flagHistoryLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions recorded.")
			return nil
		}
		fmt.Fprintf(out, "%-36s  %-20s  %-10s  %-24s  %s\n", "ID", "CREATED", "PROVIDER", "MODEL", "MESSAGES")
		for _, s := range sessions {
			fmt.Fprintf(out, "%-36s  %-20s  %-10s  %-24s  %d\n",
				s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04:05"), s.Provider, s.Model, s.Messages)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored session transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		writer, err := output.GetWriter(flagHistoryFormat)
		if err != nil {
			return err
		}
		st, err := openHistory()
		if err != nil {
			return err
		}
		defer st.Close()

		msgs, err := st.Messages(context.Background(), args[0])
		if err != nil {
			if store.IsNotFound(err) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: no session %s\n", args[0])
				exitCode = ExitRuntimeError
				return nil
			}
			return err
		}
		return writer.Write(cmd.OutOrStdout(), output.NewTranscript("", "", msgs))
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Delete(context.Background(), args[0]); err != nil {
			if store.IsNotFound(err) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: no session %s\n", args[0])
				exitCode = ExitRuntimeError
				return nil
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyListCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Maximum number of sessions to list")
	historyShowCmd.Flags().StringVar(&flagHistoryFormat, "format", "text", "Output format (json, markdown, text)")
}
