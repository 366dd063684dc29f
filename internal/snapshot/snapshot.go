// Package snapshot reads the four stream CSVs of a workspace into an
// engine.Snapshot.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/fleetledger/fleetledger/internal/engine"
	"github.com/fleetledger/fleetledger/internal/model"
	"github.com/fleetledger/fleetledger/internal/normalize"
)

// Files names each stream's CSV, relative to the data directory. A blank name
// leaves that stream empty.
type Files struct {
	Collections string
	Expenses    string
	Investments string
	Bank        string
}

// Load reads every stream file under dir concurrently. A missing file yields
// an empty stream; any other read failure aborts the load.
func Load(ctx context.Context, dir string, files Files) (engine.Snapshot, error) {
	var snap engine.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	for _, f := range []struct {
		stream model.Stream
		name   string
		dst    *normalize.Table
	}{
		{model.StreamCollection, files.Collections, &snap.Collections},
		{model.StreamExpense, files.Expenses, &snap.Expenses},
		{model.StreamInvestment, files.Investments, &snap.Investments},
		{model.StreamBank, files.Bank, &snap.Bank},
	} {
		if f.name == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := readFile(f.stream, filepath.Join(dir, f.name))
			if err != nil {
				return err
			}
			*f.dst = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return engine.Snapshot{}, err
	}
	return snap, nil
}

func readFile(stream model.Stream, path string) (normalize.Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return normalize.Table{}, nil
	}
	if err != nil {
		return normalize.Table{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := normalize.ReadTable(stream, f)
	if err != nil {
		return normalize.Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
