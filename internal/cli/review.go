package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/codereview-agent/codereview/internal/cache"
	"github.com/codereview-agent/codereview/internal/chat"
	"github.com/codereview-agent/codereview/internal/config"
	"github.com/codereview-agent/codereview/internal/gitctx"
	"github.com/codereview-agent/codereview/internal/logging"
	"github.com/codereview-agent/codereview/internal/output"
	"github.com/codereview-agent/codereview/internal/providers"
	"github.com/codereview-agent/codereview/internal/redact"
	"github.com/codereview-agent/codereview/internal/render"
	"github.com/codereview-agent/codereview/internal/repl"
	"github.com/codereview-agent/codereview/internal/session"
	"github.com/codereview-agent/codereview/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Global flags
var (
	flagProvider string
	flagModel    string
	flagRender   bool
	flagNoRedact bool
	flagVerbose  bool
)

// Single-shot flags
var (
	flagFile        string
	flagCode        string
	flagDiff        string
	flagLang        string
	flagOutput      string
	flagFormat      string
	flagTemperature float64
	flagMaxTokens   int
)

func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	cmd.PersistentFlags().StringVar(&flagModel, "model", "", "Model name")
	cmd.PersistentFlags().BoolVar(&flagRender, "render", false, "Render replies as styled markdown")
	cmd.PersistentFlags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging on stderr")
}

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagFile, "file", "f", "", "Path to a file to review (single-shot)")
	cmd.Flags().StringVarP(&flagCode, "code", "c", "", "Code snippet to review (single-shot)")
	cmd.Flags().StringVar(&flagDiff, "diff", "", "Review a git diff: --diff (unstaged), --diff=staged or --diff=<rev-range>")
	cmd.Flags().Lookup("diff").NoOptDefVal = string(gitctx.Unstaged)
	cmd.Flags().StringVar(&flagLang, "lang", "", "Language hint for --code")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Save the review transcript to a file")
	cmd.Flags().StringVar(&flagFormat, "format", "json", "Transcript format (json, markdown, text)")
	cmd.Flags().Float64Var(&flagTemperature, "temperature", -1, "Sampling temperature (0-2, 0-1 for anthropic)")
	cmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "Maximum reply tokens")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagRender {
		m["render"] = "true"
	}
	if flagTemperature >= 0 {
		m["temperature"] = strconv.FormatFloat(flagTemperature, 'g', -1, 64)
	}
	if flagMaxTokens > 0 {
		m["maxTokens"] = strconv.Itoa(flagMaxTokens)
	}
	return m
}

// newCompleter builds the model client for cfg. Tests replace it.
var newCompleter = func(cfg config.Config) (chat.Completer, error) {
	return providers.New(providers.Config{
		Name:    cfg.Provider,
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
	})
}

// stdin feeds the interactive loop.
var stdin io.Reader = os.Stdin

// agent bundles a session with the resources it holds open.
type agent struct {
	session *session.Session
	render  *render.Renderer
	store   *store.Store
}

func newAgent(cfg config.Config, log *zap.Logger, out io.Writer) (*agent, error) {
	p, err := newCompleter(cfg)
	if err != nil {
		return nil, err
	}
	c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	opts := []session.Option{
		session.WithModel(cfg.Model),
		session.WithTemperature(cfg.Temperature),
		session.WithMaxTokens(cfg.MaxTokens),
		session.WithLogger(log),
		session.WithNotices(out),
	}
	if cfg.Privacy.RedactSecrets {
		opts = append(opts, session.WithRedactor(redact.New(cfg.Privacy.RedactPaths)))
	}

	a := &agent{render: render.New(cfg.Render, 0)}
	if cfg.History.Enabled {
		st, err := store.Open(cfg.History.Path, cfg.Provider, cfg.Model)
		if err != nil {
			log.Warn("transcript history unavailable", zap.String("path", cfg.History.Path), zap.Error(err))
		} else {
			a.store = st
			opts = append(opts, session.WithRecorder(st))
		}
	}

	a.session = session.New(cache.Wrap(p, c, log), opts...)
	log.Debug("session started",
		zap.String("session", a.session.ID()),
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))
	return a, nil
}

func (a *agent) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return err
	}
	if flagOutput != "" {
		if _, err := output.GetWriter(flagFormat); err != nil {
			return err
		}
	}

	log, err := logging.New(flagVerbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}

	out := cmd.OutOrStdout()
	a, err := newAgent(cfg, log, out)
	if err != nil {
		fail(err)
		return nil
	}
	defer a.Close()

	ctx := context.Background()

	if flagFile != "" || flagCode != "" || flagDiff != "" {
		runSingle(ctx, a, cfg, out)
		return nil
	}

	loop := &repl.Loop{
		Reviewer: a.session,
		In:       stdin,
		Out:      out,
		Renderer: a.render,
		Log:      log,
	}
	if err := loop.Run(ctx); err != nil {
		fail(err)
	}
	return nil
}

// runSingle reviews --file, --code or --diff once, in that order of
// preference.
func runSingle(ctx context.Context, a *agent, cfg config.Config, out io.Writer) {
	var reply string
	var err error
	source := flagFile
	switch {
	case flagFile != "":
		reply, err = a.session.ReviewFile(ctx, flagFile)
	case flagCode != "":
		reply, err = a.session.ReviewCode(ctx, flagCode, flagLang)
	default:
		var d gitctx.Diff
		d, err = collectDiff(ctx, cfg)
		if err == nil && d.Empty() {
			fmt.Fprintln(out, "No changes to review.")
			return
		}
		if err == nil {
			source = "git diff " + flagDiff
			reply, err = a.session.ReviewCode(ctx, d.Text, diffLanguage)
		}
	}
	if err != nil {
		fail(err)
		return
	}
	fmt.Fprintln(out, a.render.Render(reply))

	if flagOutput == "" {
		return
	}
	t := output.NewTranscript(source, flagCode, a.session.History())
	if err := output.WriteFile(t, flagFormat, flagOutput); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	fmt.Fprintf(out, "\nReview saved to %s\n", flagOutput)
}

// fail reports err and records the matching exit code.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if providers.IsAuthError(err) {
		exitCode = ExitAuthError
		return
	}
	exitCode = ExitRuntimeError
}

// diffLanguage labels diffs in the review prompt.
const diffLanguage = "unified diff"

func collectDiff(ctx context.Context, cfg config.Config) (gitctx.Diff, error) {
	opts := gitctx.Options{
		ContextLines: cfg.Diff.ContextLines,
		MaxBytes:     cfg.Diff.MaxBytes,
	}
	if cfg.Privacy.RedactSecrets {
		opts.Exclude = cfg.Privacy.RedactPaths
	}
	d, err := gitctx.Collect(ctx, flagDiff, opts)
	if err != nil {
		return d, err
	}
	if d.Truncated {
		fmt.Fprintf(os.Stderr, "WARNING: diff truncated to %d bytes\n", cfg.Diff.MaxBytes)
	}
	return d, nil
}
