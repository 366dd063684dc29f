// Package reconcile combines the manual ledgers and the bank account into
// per-actor and global balances.
//
// An actor's remaining fund is the cash they are modeled to hold:
//
//	remaining = collection − expense − bank collection credit
//	          + bank settlement debit − bank settlement credit + investment
//
// The bank balance is every credit minus every debit. Net balance adds the
// two views, so money moving between an actor's hands and the bank cancels.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/fleetledger/fleetledger/internal/model"
	"github.com/fleetledger/fleetledger/internal/normalize"
)

// ActorBalance is one actor's slice of the balance sheet.
type ActorBalance struct {
	Actor                model.Actor
	TotalCollection      decimal.Decimal
	TotalExpense         decimal.Decimal
	TotalInvestment      decimal.Decimal // manual sheet only
	BankCollectionCredit decimal.Decimal
	BankSettlementCredit decimal.Decimal
	BankSettlementDebit  decimal.Decimal
	RemainingFund        decimal.Decimal
}

func (a *ActorBalance) settle() {
	a.RemainingFund = a.TotalCollection.
		Sub(a.TotalExpense).
		Sub(a.BankCollectionCredit).
		Add(a.BankSettlementDebit).
		Sub(a.BankSettlementCredit).
		Add(a.TotalInvestment)
}

// BankTotals sums bank movements per transaction kind.
type BankTotals struct {
	CollectionCredit decimal.Decimal
	InvestmentCredit decimal.Decimal
	PaymentCredit    decimal.Decimal
	ExpenseDebit     decimal.Decimal
	SettlementCredit decimal.Decimal
	SettlementDebit  decimal.Decimal
}

// Credits returns the total of all credit kinds.
func (b BankTotals) Credits() decimal.Decimal {
	return b.CollectionCredit.Add(b.InvestmentCredit).Add(b.PaymentCredit).Add(b.SettlementCredit)
}

// Debits returns the total of all debit kinds.
func (b BankTotals) Debits() decimal.Decimal {
	return b.ExpenseDebit.Add(b.SettlementDebit)
}

// Of returns the total for kind.
func (b BankTotals) Of(kind model.TxnKind) decimal.Decimal {
	switch kind {
	case model.CollectionCredit:
		return b.CollectionCredit
	case model.InvestmentCredit:
		return b.InvestmentCredit
	case model.PaymentCredit:
		return b.PaymentCredit
	case model.ExpenseDebit:
		return b.ExpenseDebit
	case model.SettlementCredit:
		return b.SettlementCredit
	case model.SettlementDebit:
		return b.SettlementDebit
	}
	return decimal.Zero
}

func (b *BankTotals) add(kind model.TxnKind, amount decimal.Decimal) {
	switch kind {
	case model.CollectionCredit:
		b.CollectionCredit = b.CollectionCredit.Add(amount)
	case model.InvestmentCredit:
		b.InvestmentCredit = b.InvestmentCredit.Add(amount)
	case model.PaymentCredit:
		b.PaymentCredit = b.PaymentCredit.Add(amount)
	case model.ExpenseDebit:
		b.ExpenseDebit = b.ExpenseDebit.Add(amount)
	case model.SettlementCredit:
		b.SettlementCredit = b.SettlementCredit.Add(amount)
	case model.SettlementDebit:
		b.SettlementDebit = b.SettlementDebit.Add(amount)
	}
}

// BalanceSheet is derived on every run from the current record sets.
type BalanceSheet struct {
	Actors       []ActorBalance // configuration order
	Unattributed ActorBalance   // rows whose actor is not configured
	Bank         BankTotals

	TotalCollection  decimal.Decimal
	TotalExpense     decimal.Decimal
	ManualInvestment decimal.Decimal
	BankInvestment   decimal.Decimal
	TotalInvestment  decimal.Decimal // manual + bank investment credit, not deduplicated

	BankBalance decimal.Decimal
	NetBalance  decimal.Decimal
}

// Actor returns the balance for id.
func (s BalanceSheet) Actor(id model.Actor) (ActorBalance, bool) {
	for _, a := range s.Actors {
		if a.Actor == id {
			return a, true
		}
	}
	return ActorBalance{}, false
}

// RemainingFunds returns every actor's remaining fund keyed by actor,
// including the unattributed bucket under model.Unattributed.
func (s BalanceSheet) RemainingFunds() map[model.Actor]decimal.Decimal {
	m := make(map[model.Actor]decimal.Decimal, len(s.Actors)+1)
	for _, a := range s.Actors {
		m[a.Actor] = a.RemainingFund
	}
	m[model.Unattributed] = s.Unattributed.RemainingFund
	return m
}

// Reconcile builds the balance sheet for the given actors. Rows that name an
// actor outside the list land in Unattributed.
func Reconcile(b *normalize.Batch, actors []model.Actor) BalanceSheet {
	s := BalanceSheet{Actors: make([]ActorBalance, len(actors))}
	pos := make(map[model.Actor]int, len(actors))
	for i, a := range actors {
		s.Actors[i].Actor = a
		pos[a] = i
	}
	bucket := func(a model.Actor) *ActorBalance {
		if i, ok := pos[a]; ok {
			return &s.Actors[i]
		}
		return &s.Unattributed
	}

	for _, c := range b.Collections {
		ab := bucket(c.ReceivedBy)
		ab.TotalCollection = ab.TotalCollection.Add(c.Amount)
		s.TotalCollection = s.TotalCollection.Add(c.Amount)
	}
	for _, e := range b.Expenses {
		ab := bucket(e.SpentBy)
		ab.TotalExpense = ab.TotalExpense.Add(e.Amount)
		s.TotalExpense = s.TotalExpense.Add(e.Amount)
	}
	for _, inv := range b.Investments {
		ab := bucket(inv.Investor)
		ab.TotalInvestment = ab.TotalInvestment.Add(inv.Amount)
		s.ManualInvestment = s.ManualInvestment.Add(inv.Amount)
	}
	for _, t := range b.Bank {
		s.Bank.add(t.Kind, t.Amount)
		ab := bucket(t.Actor)
		switch t.Kind {
		case model.CollectionCredit:
			ab.BankCollectionCredit = ab.BankCollectionCredit.Add(t.Amount)
		case model.SettlementCredit:
			ab.BankSettlementCredit = ab.BankSettlementCredit.Add(t.Amount)
		case model.SettlementDebit:
			ab.BankSettlementDebit = ab.BankSettlementDebit.Add(t.Amount)
		}
	}

	net := decimal.Zero
	for i := range s.Actors {
		s.Actors[i].settle()
		net = net.Add(s.Actors[i].RemainingFund)
	}
	s.Unattributed.settle()
	net = net.Add(s.Unattributed.RemainingFund)

	s.BankInvestment = s.Bank.InvestmentCredit
	s.TotalInvestment = s.ManualInvestment.Add(s.BankInvestment)
	s.BankBalance = s.Bank.Credits().Sub(s.Bank.Debits())
	s.NetBalance = net.Add(s.BankBalance)
	return s
}
