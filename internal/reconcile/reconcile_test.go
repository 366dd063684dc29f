package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetledger/fleetledger/internal/model"
	"github.com/fleetledger/fleetledger/internal/normalize"
)

var actorsAB = []model.Actor{"A", "B"}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func collection(actor model.Actor, amount string) model.CollectionRecord {
	return model.CollectionRecord{ReceivedBy: actor, Amount: dec(amount)}
}

func expense(actor model.Actor, amount string) model.ExpenseRecord {
	return model.ExpenseRecord{SpentBy: actor, Amount: dec(amount)}
}

func investment(actor model.Actor, amount string) model.InvestmentRecord {
	return model.InvestmentRecord{Investor: actor, Amount: dec(amount), Source: model.SourceManual}
}

func bank(actor model.Actor, kind model.TxnKind, amount string) model.BankTransaction {
	return model.BankTransaction{Actor: actor, Kind: kind, Amount: dec(amount)}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), append([]any{"want %s got %s", want, got}, msgAndArgs...)...)
}

func assertNetInvariant(t *testing.T, s BalanceSheet) {
	t.Helper()
	sum := decimal.Zero
	for _, v := range s.RemainingFunds() {
		sum = sum.Add(v)
	}
	assert.True(t, s.NetBalance.Equal(sum.Add(s.BankBalance)),
		"net %s != remaining %s + bank %s", s.NetBalance, sum, s.BankBalance)
}

func TestRemainingFundFormula(t *testing.T) {
	b := &normalize.Batch{
		Collections: []model.CollectionRecord{collection("A", "600"), collection("A", "400")},
		Expenses:    []model.ExpenseRecord{expense("A", "200")},
		Bank: []model.BankTransaction{
			bank("A", model.CollectionCredit, "300"),
			bank("A", model.SettlementDebit, "50"),
		},
	}
	s := Reconcile(b, actorsAB)

	a, ok := s.Actor("A")
	require.True(t, ok)
	assertDec(t, "1000", a.TotalCollection)
	assertDec(t, "200", a.TotalExpense)
	assertDec(t, "300", a.BankCollectionCredit)
	assertDec(t, "50", a.BankSettlementDebit)
	assertDec(t, "0", a.BankSettlementCredit)
	assertDec(t, "0", a.TotalInvestment)
	assertDec(t, "550", a.RemainingFund)

	// Bank: 300 credit − 50 debit.
	assertDec(t, "250", s.BankBalance)
	assertDec(t, "800", s.NetBalance)
	assertNetInvariant(t, s)
}

func TestInvestmentAddsToRemaining(t *testing.T) {
	b := &normalize.Batch{
		Investments: []model.InvestmentRecord{investment("B", "1000")},
		Bank:        []model.BankTransaction{bank("B", model.InvestmentCredit, "500")},
	}
	s := Reconcile(b, actorsAB)
	bb, _ := s.Actor("B")
	assertDec(t, "1000", bb.RemainingFund)
	assertDec(t, "1000", s.ManualInvestment)
	assertDec(t, "500", s.BankInvestment)
	assertDec(t, "1500", s.TotalInvestment)
	assertDec(t, "500", s.BankBalance)
	assertDec(t, "1500", s.NetBalance)
}

func TestBankBalanceByPolarity(t *testing.T) {
	b := &normalize.Batch{Bank: []model.BankTransaction{
		bank("A", model.CollectionCredit, "100"),
		bank("A", model.InvestmentCredit, "20"),
		bank("B", model.PaymentCredit, "3"),
		bank("B", model.ExpenseDebit, "40"),
		bank("A", model.SettlementDebit, "5"),
		bank("B", model.SettlementCredit, "5"),
	}}
	s := Reconcile(b, actorsAB)
	assertDec(t, "128", s.Bank.Credits())
	assertDec(t, "45", s.Bank.Debits())
	assertDec(t, "83", s.BankBalance)
	for _, k := range model.TxnKinds {
		assert.False(t, s.Bank.Of(k).IsZero(), k.String())
	}
	assertNetInvariant(t, s)
}

func TestSettlementNeutrality(t *testing.T) {
	base := &normalize.Batch{
		Collections: []model.CollectionRecord{collection("A", "900"), collection("B", "400")},
		Expenses:    []model.ExpenseRecord{expense("B", "100")},
		Bank:        []model.BankTransaction{bank("A", model.CollectionCredit, "500")},
	}
	before := Reconcile(base, actorsAB)

	withPair := *base
	withPair.Bank = append(append([]model.BankTransaction{}, base.Bank...),
		bank("A", model.SettlementCredit, "75"),
		bank("B", model.SettlementDebit, "75"),
	)
	after := Reconcile(&withPair, actorsAB)

	assert.True(t, before.NetBalance.Equal(after.NetBalance),
		"net moved from %s to %s", before.NetBalance, after.NetBalance)

	a0, _ := before.Actor("A")
	a1, _ := after.Actor("A")
	b0, _ := before.Actor("B")
	b1, _ := after.Actor("B")
	assertDec(t, "-75", a1.RemainingFund.Sub(a0.RemainingFund))
	assertDec(t, "75", b1.RemainingFund.Sub(b0.RemainingFund))
	assertNetInvariant(t, after)
}

func TestUnknownActorIsNotAttributed(t *testing.T) {
	b := &normalize.Batch{
		Collections: []model.CollectionRecord{collection("A", "100"), collection(model.Unattributed, "40")},
		Expenses:    []model.ExpenseRecord{expense(model.Unattributed, "10")},
		Bank:        []model.BankTransaction{bank(model.Unattributed, model.CollectionCredit, "5")},
	}
	s := Reconcile(b, actorsAB)

	a, _ := s.Actor("A")
	bb, _ := s.Actor("B")
	assertDec(t, "100", a.RemainingFund)
	assertDec(t, "0", bb.RemainingFund)
	assertDec(t, "25", s.Unattributed.RemainingFund)
	assertDec(t, "140", s.TotalCollection, "global totals include unattributed rows")
	assertDec(t, "10", s.TotalExpense)
	assertDec(t, "130", s.NetBalance)
	assertNetInvariant(t, s)
}

func TestActorOutsideListIsUnattributed(t *testing.T) {
	b := &normalize.Batch{Collections: []model.CollectionRecord{collection("C", "70")}}
	s := Reconcile(b, actorsAB)
	_, ok := s.Actor("C")
	assert.False(t, ok)
	assertDec(t, "70", s.Unattributed.TotalCollection)
}

func TestNetInvariant_Combinations(t *testing.T) {
	batches := map[string]*normalize.Batch{
		"empty": {},
		"collections only": {Collections: []model.CollectionRecord{collection("A", "10")}},
		"bank only":        {Bank: []model.BankTransaction{bank("B", model.ExpenseDebit, "9")}},
		"mixed": {
			Collections: []model.CollectionRecord{collection("A", "10"), collection("B", "20.55")},
			Expenses:    []model.ExpenseRecord{expense("A", "3.10"), expense("C", "1")},
			Investments: []model.InvestmentRecord{investment("B", "7")},
			Bank: []model.BankTransaction{
				bank("A", model.CollectionCredit, "5"),
				bank("B", model.SettlementCredit, "2"),
				bank("A", model.SettlementDebit, "2"),
				bank("A", model.PaymentCredit, "1.25"),
			},
		},
	}
	for name, b := range batches {
		t.Run(name, func(t *testing.T) {
			assertNetInvariant(t, Reconcile(b, actorsAB))
		})
	}
}

func TestEmpty(t *testing.T) {
	s := Reconcile(&normalize.Batch{}, actorsAB)
	require.Len(t, s.Actors, 2)
	assert.True(t, s.NetBalance.IsZero())
	assert.True(t, s.BankBalance.IsZero())

	s = Reconcile(&normalize.Batch{}, nil)
	assert.Empty(t, s.Actors)
}

func TestIdempotent(t *testing.T) {
	b := &normalize.Batch{
		Collections: []model.CollectionRecord{collection("A", "10.10"), collection("B", "3.333")},
		Expenses:    []model.ExpenseRecord{expense("B", "1.01")},
		Bank:        []model.BankTransaction{bank("A", model.CollectionCredit, "4.4")},
	}
	first := Reconcile(b, actorsAB)
	second := Reconcile(b, actorsAB)
	assert.Equal(t, first, second)
}
