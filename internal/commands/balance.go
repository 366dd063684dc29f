package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fleetledger/fleetledger/internal/model"
	"github.com/fleetledger/fleetledger/internal/reconcile"
)

func newBalanceCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show per-actor remaining funds and the fleet net balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			res, entry, err := ws.run(cmd.Context(), "balance")
			if err != nil {
				return err
			}
			ws.record(cmd.Context(), entry)
			return printBalance(cmd.OutOrStdout(), ws, res.Sheet, len(res.Warnings))
		},
	}
}

func printBalance(out io.Writer, ws *workspace, s reconcile.BalanceSheet, warnings int) error {
	fmt.Fprintf(out, "%s (%s)\n\n", ws.cfg.Workspace.Name, ws.cfg.Workspace.Currency)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "actor\tcollection\texpense\tinvestment\tbank deposit\tsettled in\tsettled out\tremaining\t")
	row := func(label string, a reconcile.ActorBalance) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			label,
			ws.money(a.TotalCollection),
			ws.money(a.TotalExpense),
			ws.money(a.TotalInvestment),
			ws.money(a.BankCollectionCredit),
			ws.money(a.BankSettlementCredit),
			ws.money(a.BankSettlementDebit),
			ws.money(a.RemainingFund),
		)
	}
	for _, a := range s.Actors {
		row(ws.balanceName(a), a)
	}
	if !s.Unattributed.RemainingFund.IsZero() || !s.Unattributed.TotalCollection.IsZero() || !s.Unattributed.TotalExpense.IsZero() {
		row(ws.displayName(model.Unattributed), s.Unattributed)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nBank movements")
	bw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, k := range model.TxnKinds {
		fmt.Fprintf(bw, "  %s\t%s\t%s\n", k, k.Polarity, ws.money(s.Bank.Of(k)))
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total collection:  %s\n", ws.money(s.TotalCollection))
	fmt.Fprintf(out, "Total expense:     %s\n", ws.money(s.TotalExpense))
	fmt.Fprintf(out, "Total investment:  %s\n", ws.money(s.TotalInvestment))
	fmt.Fprintf(out, "Bank balance:      %s\n", ws.money(s.BankBalance))
	fmt.Fprintf(out, "Net balance:       %s\n", ws.money(s.NetBalance))
	if warnings > 0 {
		fmt.Fprintf(out, "\n%d row warning(s)\n", warnings)
	}
	return nil
}
