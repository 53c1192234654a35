package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bkyoung/goodtogo/internal/domain"
	"github.com/bkyoung/goodtogo/internal/usecase/analyzer"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// ExitError carries the process exit code a PRAnalysisResult maps to, so
// main can propagate it without re-deriving the status-to-code table.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// Analyzer is the use case the analyze command drives.
type Analyzer interface {
	Analyze(ctx context.Context, owner, repo string, prNumber int, opts analyzer.Options) (domain.PRAnalysisResult, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Analyzer            Analyzer
	Args                Arguments
	DefaultOutputMode    string
	DefaultExcludeChecks []string
	DefaultForceRefresh  bool
	DefaultDeadline      time.Duration
	Version              string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "goodtogo",
		Short: "Deterministic pull-request readiness analyzer",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(analyzeCommand(deps))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func analyzeCommand(deps Dependencies) *cobra.Command {
	var owner string
	var repo string
	var prNumber int
	var excludeChecks []string
	var forceRefresh bool
	var deadline time.Duration
	var outputMode string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a pull request's readiness to merge",
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" || repo == "" {
				return fmt.Errorf("--owner and --repo are required")
			}
			if prNumber <= 0 {
				return fmt.Errorf("--pr must be a positive integer")
			}

			mode := outputMode
			if mode == "" {
				mode = deps.DefaultOutputMode
			}
			if mode != "ai" && mode != "semantic" {
				return fmt.Errorf("--output-mode must be %q or %q, got %q", "ai", "semantic", mode)
			}

			excludes := excludeChecks
			if len(excludes) == 0 {
				excludes = deps.DefaultExcludeChecks
			}

			opts := analyzer.Options{
				ExcludeCheckNames: excludes,
				ForceRefresh:      forceRefresh || deps.DefaultForceRefresh,
				Deadline:          deadline,
			}
			if opts.Deadline == 0 {
				opts.Deadline = deps.DefaultDeadline
			}

			result, err := deps.Analyzer.Analyze(cmd.Context(), owner, repo, prNumber, opts)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if encErr := encoder.Encode(result); encErr != nil {
				return fmt.Errorf("encode result: %w", encErr)
			}

			if code := exitCode(mode, result.Status); code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Repository owner")
	cmd.Flags().StringVar(&repo, "repo", "", "Repository name")
	cmd.Flags().IntVar(&prNumber, "pr", 0, "Pull request number")
	cmd.Flags().StringSliceVar(&excludeChecks, "exclude-check", nil, "CI check name to exclude from the roll-up (repeatable)")
	cmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "Bypass the cache for this run")
	cmd.Flags().DurationVar(&deadline, "deadline", 0, "Wall-clock deadline for the whole analysis (0 uses the configured default)")
	cmd.Flags().StringVar(&outputMode, "output-mode", "", `Exit-code mode: "ai" (always 0 except ERROR) or "semantic" (one code per status)`)

	return cmd
}

// exitCode maps a status to a process exit code per the selected mode.
// AI-friendly mode only distinguishes ERROR from everything else, since
// an agent consuming the result parses the JSON status field instead.
func exitCode(mode string, status domain.PRStatus) int {
	if status == domain.StatusError {
		return 4
	}
	if mode == "ai" {
		return 0
	}
	switch status {
	case domain.StatusReady:
		return 0
	case domain.StatusActionRequired:
		return 1
	case domain.StatusUnresolved:
		return 2
	case domain.StatusCIFailing:
		return 3
	default:
		return 4
	}
}
