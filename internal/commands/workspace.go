package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/fleetledger/fleetledger/internal/actors"
	"github.com/fleetledger/fleetledger/internal/config"
	"github.com/fleetledger/fleetledger/internal/engine"
	"github.com/fleetledger/fleetledger/internal/logger"
	"github.com/fleetledger/fleetledger/internal/model"
	"github.com/fleetledger/fleetledger/internal/reconcile"
	"github.com/fleetledger/fleetledger/internal/runlog"
	"github.com/fleetledger/fleetledger/internal/snapshot"
)

// workspace is an opened fleetledger directory.
type workspace struct {
	root   string
	cfg    *config.Config
	actors *actors.Registry
}

func openWorkspace(opts *globalOptions) (*workspace, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	path := opts.config
	if path == "" {
		path = filepath.Join(root, config.FileName)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	return &workspace{root: root, cfg: cfg, actors: reg}, nil
}

func (w *workspace) dataDir() string {
	return filepath.Join(w.root, w.cfg.Data.Dir)
}

// run loads the snapshot and reconciles it. The returned entry is ready to be
// appended to the run log once the command has finished.
func (w *workspace) run(ctx context.Context, command string) (*engine.Result, runlog.Entry, error) {
	entry := runlog.NewEntry(command, time.Now())
	log := logger.FromContext(ctx).With().Str("run_id", entry.RunID).Str("command", command).Logger()

	snap, err := snapshot.Load(ctx, w.dataDir(), snapshot.Files{
		Collections: w.cfg.Data.Collections,
		Expenses:    w.cfg.Data.Expenses,
		Investments: w.cfg.Data.Investments,
		Bank:        w.cfg.Data.Bank,
	})
	if err != nil {
		return nil, entry, fmt.Errorf("loading snapshot: %w", err)
	}

	log.Info().Str("data", w.dataDir()).Msg("run started")
	res, err := engine.Run(snap, engine.Options{Actors: w.actors, Policy: w.cfg.Policy()})
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		return nil, entry, err
	}

	for _, warn := range res.Warnings {
		log.Warn().Err(warn).Msg("row warning")
	}
	for _, a := range res.Distance.Anomalies {
		log.Info().
			Str("vehicle", a.VehicleID).
			Int("row", a.Row).
			Str("raw", a.Raw.String()).
			Str("imputed", a.Imputed.String()).
			Msg("odometer anomaly imputed")
	}

	entry.NetBalance = res.Sheet.NetBalance
	entry.Warnings = len(res.Warnings)
	log.Info().Str("net_balance", res.Sheet.NetBalance.StringFixed(2)).Int("warnings", entry.Warnings).Msg("run finished")
	return res, entry, nil
}

// record appends e to the run log. A failure is logged, not returned.
func (w *workspace) record(ctx context.Context, e runlog.Entry) {
	if err := runlog.Append(w.root, []runlog.Entry{e}); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("failed to write run log")
	}
}

// displayName labels an actor for output.
func (w *workspace) displayName(id model.Actor) string {
	return w.actors.DisplayName(id)
}

func (w *workspace) balanceName(a reconcile.ActorBalance) string {
	return w.actors.DisplayName(a.Actor)
}

// money renders an amount in the workspace currency. Unknown or blank
// currencies fall back to a plain two-place decimal.
func (w *workspace) money(d decimal.Decimal) string {
	return formatMoney(d, w.cfg.Workspace.Currency)
}

func formatMoney(d decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	cur := money.GetCurrency(code)
	if cur == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), code).Display()
}
