package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fleetledger/fleetledger/internal/aggregate"
	"github.com/fleetledger/fleetledger/internal/export"
	"github.com/fleetledger/fleetledger/internal/model"
	"github.com/fleetledger/fleetledger/internal/period"
)

// parseStreamFlag maps "all" or "" to every stream.
func parseStreamFlag(s string) (model.Stream, error) {
	if s == "" || s == "all" {
		return "", nil
	}
	return model.ParseStream(s)
}

func newReportCommand(opts *globalOptions) *cobra.Command {
	var stream, by, metric, out string
	var top int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Group ledger facts by actor, vehicle, period, type or stream",
		Example: `  fleetledger report --stream collection --by actor,period
  fleetledger report --stream expense --by vehicle --top 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseStreamFlag(stream)
			if err != nil {
				return err
			}
			dims, err := aggregate.ParseDimensions(by)
			if err != nil {
				return err
			}
			m, err := aggregate.ParseMetric(metric)
			if err != nil {
				return err
			}

			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			res, entry, err := ws.run(cmd.Context(), "report")
			if err != nil {
				return err
			}
			ws.record(cmd.Context(), entry)

			t := res.Group(st, dims...)
			if top > 0 {
				t = aggregate.TopN(t, m, top)
			}
			t = aggregate.ActorLabels(t, ws.displayName)

			return withOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return export.WriteTable(w, t)
			})
		},
	}

	cmd.Flags().StringVar(&stream, "stream", "all", "collection, expense, investment, bank or all")
	cmd.Flags().StringVar(&by, "by", "actor", "comma-separated dimensions: stream, actor, vehicle, period, type")
	cmd.Flags().StringVar(&metric, "metric", "sum", "ranking metric for --top: sum, count, average, distance")
	cmd.Flags().IntVar(&top, "top", 0, "keep only the top N rows")
	cmd.Flags().StringVar(&out, "out", "", "write CSV to a file instead of stdout")

	return cmd
}

func newTrendCommand(opts *globalOptions) *cobra.Command {
	var stream, from, to, out string

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show a stream's month-over-month totals and change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := model.ParseStream(stream)
			if err != nil {
				return err
			}
			lo, hi, err := parseWindow(from, to)
			if err != nil {
				return err
			}

			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			res, entry, err := ws.run(cmd.Context(), "trend")
			if err != nil {
				return err
			}
			ws.record(cmd.Context(), entry)

			changes := window(res.Trend(st), lo, hi)
			return withOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return export.WriteChanges(w, changes)
			})
		},
	}

	cmd.Flags().StringVar(&stream, "stream", "collection", "collection, expense, investment or bank")
	cmd.Flags().StringVar(&from, "from", "", "first month to show, YYYY-MM")
	cmd.Flags().StringVar(&to, "to", "", "last month to show, YYYY-MM")
	cmd.Flags().StringVar(&out, "out", "", "write CSV to a file instead of stdout")

	return cmd
}

// parseWindow parses optional inclusive month bounds.
func parseWindow(from, to string) (lo, hi period.Key, err error) {
	if from != "" {
		if lo, err = period.Parse(from); err != nil {
			return "", "", fmt.Errorf("--from: %w", err)
		}
	}
	if to != "" {
		if hi, err = period.Parse(to); err != nil {
			return "", "", fmt.Errorf("--to: %w", err)
		}
	}
	if !lo.IsNone() && !hi.IsNone() && period.Less(hi, lo) {
		return "", "", fmt.Errorf("--from %s is after --to %s", lo, hi)
	}
	return lo, hi, nil
}

// window keeps the changes between lo and hi inclusive. Percentages still
// compare against the month before, even when that month is cut off.
func window(changes []aggregate.Change, lo, hi period.Key) []aggregate.Change {
	var out []aggregate.Change
	for _, c := range changes {
		if !lo.IsNone() && period.Less(c.Period, lo) {
			continue
		}
		if !hi.IsNone() && period.Less(hi, c.Period) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func newVehiclesCommand(opts *globalOptions) *cobra.Command {
	var vehicle, out string

	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Summarize trips, collection, distance and expense per vehicle",
		Long: `Summarize trips, collection, distance and expense per vehicle.

With --vehicle, list that vehicle's per-trip distances in travel order instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			res, entry, err := ws.run(cmd.Context(), "vehicles")
			if err != nil {
				return err
			}
			ws.record(cmd.Context(), entry)

			if vehicle != "" {
				trips := res.Trips(vehicle)
				if trips == nil {
					return fmt.Errorf("no collections for vehicle %q", vehicle)
				}
				return withOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
					return export.WriteTrips(w, trips)
				})
			}
			return withOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return export.WriteVehicles(w, res.Vehicles())
			})
		},
	}

	cmd.Flags().StringVar(&vehicle, "vehicle", "", "show one vehicle's per-trip distances")
	cmd.Flags().StringVar(&out, "out", "", "write CSV to a file instead of stdout")

	return cmd
}

// withOutput runs fn against path, or against stdout when path is blank.
func withOutput(stdout io.Writer, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
