package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fleetledger/fleetledger/internal/config"
	"github.com/fleetledger/fleetledger/internal/gitops"
)

// streamHeaders are written as empty CSVs so a new workspace documents the
// expected columns.
var streamHeaders = []struct {
	file   func(config.DataConfig) string
	header string
}{
	{func(d config.DataConfig) string { return d.Collections }, "date,vehicle_id,amount,odometer_reading,collector_name,received_by"},
	{func(d config.DataConfig) string { return d.Expenses }, "date,vehicle_id,reason,amount_used,spent_by"},
	{func(d config.DataConfig) string { return d.Investments }, "date,investment_type,amount,comment,investor"},
	{func(d config.DataConfig) string { return d.Bank }, "date,actor,transaction_type,amount,reason"},
}

func newInitCommand() *cobra.Command {
	var name string
	var currency string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new fleetledger workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default(name)
			cfg.Workspace.Currency = strings.ToUpper(currency)
			if noGit {
				cfg.Git.AutoCommit = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, cfg, !noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "fleet name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "INR", "ISO 4217 currency code")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git initialization")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir string, cfg *config.Config, useGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	for _, d := range []string{cfg.Data.Dir, cfg.Data.ExportDir, "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	for _, s := range streamHeaders {
		path := filepath.Join(dir, cfg.Data.Dir, s.file(cfg.Data))
		if err := os.WriteFile(path, []byte(s.header+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(".env\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "logs", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !useGit {
		fmt.Fprintf(out, "Initialized fleetledger workspace at %s\n", dir)
		return nil
	}

	if err := gitops.Init(ctx, dir); err != nil {
		return err
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+cfg.Workspace.Name, author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized fleetledger workspace at %s (%s)\n", dir, hash)
	return nil
}
