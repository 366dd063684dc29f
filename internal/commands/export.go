package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fleetledger/fleetledger/internal/aggregate"
	"github.com/fleetledger/fleetledger/internal/engine"
	"github.com/fleetledger/fleetledger/internal/export"
	"github.com/fleetledger/fleetledger/internal/gitops"
	"github.com/fleetledger/fleetledger/internal/logger"
	"github.com/fleetledger/fleetledger/internal/model"
)

// exportFile is one CSV written by the export command.
type exportFile struct {
	name  string
	write func(io.Writer) error
}

func newExportCommand(opts *globalOptions) *cobra.Command {
	var outDir string
	var noCommit bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the balance sheet, reports and trends as CSV files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			dir := outDir
			if dir == "" {
				dir = filepath.Join(ws.root, ws.cfg.Data.ExportDir)
			}
			commit := ws.cfg.Git.AutoCommit && !noCommit
			return runExport(cmd.Context(), cmd.OutOrStdout(), ws, dir, commit)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default <repo>/exports)")
	cmd.Flags().BoolVar(&noCommit, "no-commit", false, "do not commit the exports to git")

	return cmd
}

func exportFiles(ws *workspace, res *engine.Result) []exportFile {
	label := func(t aggregate.Table) aggregate.Table { return aggregate.ActorLabels(t, ws.displayName) }
	files := []exportFile{
		{"balance.csv", func(w io.Writer) error {
			return export.WriteBalanceSheet(w, res.Sheet, ws.balanceName)
		}},
		{"by-actor-period.csv", func(w io.Writer) error {
			return export.WriteTable(w, label(res.Group("", aggregate.ByStream, aggregate.ByActor, aggregate.ByPeriod)))
		}},
		{"by-vehicle-period.csv", func(w io.Writer) error {
			return export.WriteTable(w, res.Group(model.StreamCollection, aggregate.ByVehicle, aggregate.ByPeriod))
		}},
		{"vehicles.csv", func(w io.Writer) error {
			return export.WriteVehicles(w, res.Vehicles())
		}},
	}
	for _, st := range model.Streams {
		files = append(files, exportFile{string(st) + "-trend.csv", func(w io.Writer) error {
			return export.WriteChanges(w, res.Trend(st))
		}})
	}
	return files
}

func runExport(ctx context.Context, out io.Writer, ws *workspace, dir string, commit bool) error {
	res, entry, err := ws.run(ctx, "export")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	files := exportFiles(ws, res)
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := withOutput(nil, path, f.write); err != nil {
			return fmt.Errorf("exporting %s: %w", f.name, err)
		}
	}
	fmt.Fprintf(out, "Exported %d files to %s\n", len(files), dir)

	// Logged before committing so the entry lands in the same commit.
	ws.record(ctx, entry)

	if !commit || !gitops.IsRepo(ws.root) {
		return nil
	}
	author := gitops.Author{Name: ws.cfg.Git.AuthorName, Email: ws.cfg.Git.AuthorEmail}
	msg := fmt.Sprintf("export: net balance %s (run %s)", res.Sheet.NetBalance.StringFixed(2), entry.RunID)
	hash, err := gitops.CommitAll(ctx, ws.root, msg, author)
	switch {
	case errors.Is(err, gitops.ErrNothingToCommit):
		log := logger.FromContext(ctx)
		log.Info().Msg("exports unchanged, nothing to commit")
	case err != nil:
		return fmt.Errorf("committing exports: %w", err)
	default:
		fmt.Fprintf(out, "Committed %s\n", hash)
	}
	return nil
}
