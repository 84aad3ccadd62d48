// Package main provides the CLI entrypoint for pwtrain.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/pwtrain/internal/config"
	"github.com/verte-zerg/pwtrain/internal/model"
	"github.com/verte-zerg/pwtrain/internal/terminal"
	"github.com/verte-zerg/pwtrain/internal/trainer"
)

const (
	defaultCorrect = 20
	defaultMean    = 0.4
	defaultStd     = 0.25
	defaultWindow  = 5
	defaultLimit   = 100
	defaultFormat  = string(model.FormatLines)
	defaultColor   = colorAuto
)

// Color modes accepted by --color.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

const (
	exitError       = 1
	exitInputClosed = 2
)

var (
	trainCorrect   int
	trainMean      float64
	trainStd       float64
	trainWindow    int
	trainLimit     int
	trainEcho      string
	trainReference string
	trainTimedRef  bool
	trainFormat    string
	trainColor     string
	trainLogFile   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err for the user and returns the process exit status.
func reportError(w io.Writer, err error) int {
	if errors.Is(err, trainer.ErrInputClosed) {
		writef(w, "\n\n\nTerminated by EOF.\n")
		return exitInputClosed
	}
	writef(w, "Error: %v\n", err)
	return exitError
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pwtrain",
		Short:         "Password typing trainer",
		Long:          "Type a password repeatedly until it is entered correctly, quickly and steadily.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTrainCmd,
	}

	rootCmd.Flags().IntVar(&trainCorrect, "correct", defaultCorrect, "required number of correct entries")
	rootCmd.Flags().Float64Var(&trainMean, "mean", defaultMean, "required mean time between keys (seconds)")
	rootCmd.Flags().Float64Var(&trainStd, "std", defaultStd, "required std deviation between keys (seconds)")
	rootCmd.Flags().IntVar(&trainWindow, "window", defaultWindow, "rolling window for the convergence check")
	rootCmd.Flags().IntVar(&trainLimit, "limit", defaultLimit, "maximum number of attempts")
	rootCmd.Flags().StringVar(&trainEcho, "echo", "", "glyph echoed per keystroke (empty disables echo)")
	rootCmd.Flags().StringVar(&trainReference, "reference", "", "reference password (skips the prompt)")
	rootCmd.Flags().BoolVar(&trainTimedRef, "timed-reference", false, "read the reference key by key instead of a masked prompt")
	rootCmd.Flags().StringVar(&trainFormat, "format", defaultFormat, "summary format: lines or table")
	rootCmd.Flags().StringVar(&trainColor, "color", defaultColor, "colored output: auto, always or never")
	rootCmd.Flags().StringVar(&trainLogFile, "log-file", "", "write a JSON debug log to this file")

	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runTrainCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, fileCfg.Trainer)
	if err := validateColorMode(trainColor); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cfg := model.Config{
		RequiredCorrect: trainCorrect,
		MeanLimit:       trainMean,
		StdLimit:        trainStd,
		Window:          trainWindow,
		AttemptLimit:    trainLimit,
		EchoGlyph:       trainEcho,
		Reference:       trainReference,
		TimedReference:  trainTimedRef,
		Format:          model.SummaryFormat(trainFormat),
		Color:           shouldUseColor(out, trainColor),
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, logCloser, err := setupLogger(trainLogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if cerr := logCloser.Close(); cerr != nil {
			writef(cmd.ErrOrStderr(), "failed to close log file: %v\n", cerr)
		}
	}()

	keys, err := terminal.Open()
	if err != nil {
		return fmt.Errorf("failed to acquire raw terminal input: %w", err)
	}
	defer func() {
		if cerr := keys.Close(); cerr != nil {
			writef(cmd.ErrOrStderr(), "failed to close terminal: %v\n", cerr)
		}
	}()

	printBanner(out)
	session := trainer.NewSession(cfg, keys, keys, out, logger, nil)
	if _, err := session.Run(); err != nil {
		return err
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	created, err := ensureConfigFile(path)
	if err != nil {
		return err
	}
	if created {
		writef(cmd.ErrOrStderr(), "Created %s\n", path)
	}
	editor := editorCommand(path)
	editor.Stdin = cmd.InOrStdin()
	editor.Stdout = cmd.OutOrStdout()
	editor.Stderr = cmd.ErrOrStderr()
	if err := editor.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless a config already
// exists at path.
func ensureConfigFile(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create config: %w", err)
	}
	if _, err := io.WriteString(f, defaultConfigTemplate()); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}

// editorCommand builds the editor invocation from $VISUAL or $EDITOR,
// falling back to vi.
func editorCommand(path string) *exec.Cmd {
	parts := strings.Fields(os.Getenv("VISUAL"))
	if len(parts) == 0 {
		parts = strings.Fields(os.Getenv("EDITOR"))
	}
	if len(parts) == 0 {
		parts = []string{"vi"}
	}
	return exec.Command(parts[0], append(parts[1:], path)...)
}

func applyConfig(cmd *cobra.Command, fc config.TrainerConfig) {
	applyValue(cmd, "correct", &trainCorrect, fc.Correct)
	applyValue(cmd, "mean", &trainMean, fc.Mean)
	applyValue(cmd, "std", &trainStd, fc.Std)
	applyValue(cmd, "window", &trainWindow, fc.Window)
	applyValue(cmd, "limit", &trainLimit, fc.Limit)
	applyValue(cmd, "echo", &trainEcho, fc.Echo)
	applyValue(cmd, "timed-reference", &trainTimedRef, fc.TimedReference)
	applyValue(cmd, "format", &trainFormat, fc.Format)
	applyValue(cmd, "color", &trainColor, fc.Color)
	applyValue(cmd, "log-file", &trainLogFile, fc.LogFile)
}

// applyValue copies a config file value unless the flag was set explicitly.
func applyValue[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pwtrain configuration
# Uncomment a value to enable it. CLI flags override config values.
# The reference password is never read from this file.

[trainer]
# correct = %d            # Required number of correct entries
# mean = %.2f             # Required mean time between keys (seconds)
# std = %.2f              # Required std deviation between keys (seconds)
# window = %d              # Rolling window for the convergence check
# limit = %d             # Maximum number of attempts
# echo = "*"              # Glyph echoed per keystroke
# timed-reference = false # Read the reference key by key
# format = %q        # Summary format: lines or table
# color = %q          # Colored output: auto, always or never
# log-file = %q
`,
		defaultCorrect,
		defaultMean,
		defaultStd,
		defaultWindow,
		defaultLimit,
		defaultFormat,
		defaultColor,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.RequiredCorrect <= 0 {
		return fmt.Errorf("--correct must be > 0")
	}
	if cfg.MeanLimit <= 0 {
		return fmt.Errorf("--mean must be > 0")
	}
	if cfg.StdLimit <= 0 {
		return fmt.Errorf("--std must be > 0")
	}
	if cfg.Window <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	if cfg.AttemptLimit < cfg.RequiredCorrect {
		return fmt.Errorf("--limit must be >= --correct")
	}
	switch cfg.Format {
	case model.FormatLines, model.FormatTable:
	default:
		return fmt.Errorf("--format must be %q or %q", model.FormatLines, model.FormatTable)
	}
	return nil
}

func printBanner(w io.Writer) {
	writef(w, "pwtrain - password typing trainer\n\n")
}

func validateColorMode(mode string) error {
	switch mode {
	case colorAuto, colorAlways, colorNever:
		return nil
	default:
		return fmt.Errorf("--color must be %q, %q or %q", colorAuto, colorAlways, colorNever)
	}
}

// shouldUseColor resolves a color mode against the writer the session prints
// to. NO_COLOR overrides "always".
func shouldUseColor(w io.Writer, mode string) bool {
	if mode == colorNever || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if mode == colorAlways {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func writef(w io.Writer, format string, args ...any) {
	// Best effort: a failing stdout or stderr has nowhere to report to.
	_, _ = fmt.Fprintf(w, format, args...)
}
