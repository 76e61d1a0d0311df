package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/thisismy-go/thisismy/config"
	"github.com/thisismy-go/thisismy/constants/lipgloss"
	"github.com/thisismy-go/thisismy/fetcher"
	"github.com/thisismy-go/thisismy/ignore"
	"github.com/thisismy-go/thisismy/resolver"
	"github.com/thisismy-go/thisismy/watch"
)

var rootCmd = &cobra.Command{
	Use:   "thisismy [pattern ...]",
	Short: "Aggregate files and URLs into a single text stream.",
	Long: `thisismy collects content from paths, glob patterns, and URLs into one
ordered text stream, applying ignore rules and a size ceiling. With --watch it
keeps monitoring the selected resources and asks before re-running.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoot(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	config.InitFlags(rootCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(err.Error()))
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot read working directory: %w", err)
	}

	cfg, err := config.LoadConfigs(cmd, cwd)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if cfg.Debug {
		pterm.EnableDebugMessages()
	}

	tokens := args
	if len(tokens) == 0 {
		tokens = cfg.Tokens
	}
	if len(tokens) == 0 {
		if !cfg.Silent {
			fmt.Println(lipgloss.Yellow.Render("Nothing to do: no patterns given and none configured."))
		}
		return nil
	}

	maxBytes, sizeOK := config.ParseMaxSize(cfg.MaxSize)
	if !sizeOK && !cfg.Silent {
		pterm.Warning.Printfln("invalid maxsize %q, falling back to %d bytes", cfg.MaxSize, config.DefaultMaxSizeBytes)
	}

	selection, err := resolve(cwd, tokens, cfg, maxBytes)
	if err != nil {
		return err
	}

	for _, warning := range selection.Warnings {
		if !cfg.Silent {
			pterm.Warning.Println(warning)
		}
	}
	reportSelection(selection)

	if len(selection.Resources) == 0 {
		if !cfg.Silent {
			fmt.Println(lipgloss.Yellow.Render("No resources found, nothing to process."))
		}
		return nil
	}

	client := fetcher.New(cwd)
	run := func() error {
		return writeAggregate(context.Background(), client, selection.Resources, cfg)
	}

	if err := run(); err != nil {
		return err
	}

	if !cfg.Watch {
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := watch.NewStore()
	gate := watch.NewGate(os.Stdin, os.Stdout, cfg.Silent)
	session := watch.NewSession(cwd, selection.Resources, client, store, gate, watch.Options{
		Interval: time.Duration(cfg.Interval) * time.Minute,
		Silent:   cfg.Silent,
	})
	defer session.Close()

	session.Seed(ctx)

	if !cfg.Silent {
		fmt.Println(lipgloss.BlueSky.Render(fmt.Sprintf("Watching %d resources, polling remote every %dm.", len(selection.Resources), cfg.Interval)))
	}

	err = session.Run(ctx, run)
	switch {
	case errors.Is(err, watch.ErrExit):
		if !cfg.Silent {
			fmt.Println(lipgloss.Green.Render("Watch session ended."))
		}
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	default:
		return err
	}
}

// resolve builds the ignore policy and runs the selector.
func resolve(cwd string, tokens []string, cfg *config.Config, maxBytes int64) (*resolver.Selection, error) {
	repoRules, repoSource, err := ignore.LoadRepoRules(cwd)
	if err != nil && !cfg.Silent {
		pterm.Warning.Printfln("cannot read ignore file: %v", err)
	}

	policy, err := ignore.New(ignore.Options{
		UseDefaults: true,
		RepoRules:   repoRules,
		RepoSource:  repoSource,
		Greedy:      cfg.Greedy,
	})
	if err != nil {
		return nil, fmt.Errorf("build ignore policy: %w", err)
	}
	pterm.Debug.Printfln("ignore rules source: %s", policy.Source())

	selector := resolver.NewSelector(cwd)
	return selector.Select(tokens, policy, resolver.SelectOptions{
		Recursive:    cfg.Recursive,
		Greedy:       cfg.Greedy,
		MaxSizeBytes: maxBytes,
	})
}

// reportSelection prints resolution diagnostics in debug mode.
func reportSelection(selection *resolver.Selection) {
	for _, path := range selection.IgnoredByRule {
		pterm.Debug.Printfln("ignored by rule: %s", path)
	}
	for _, rejection := range selection.IgnoredBySize {
		pterm.Debug.Printfln("ignored by size: %s (%d bytes)", rejection.Path, rejection.Size)
	}
	for _, dir := range selection.Directories {
		pterm.Debug.Printfln("directory: %s", dir)
	}
}
