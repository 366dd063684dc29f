package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetledger/fleetledger/internal/period"
)

// Polarity is the direction a bank transaction moves the bank balance.
type Polarity int

const (
	Credit Polarity = iota + 1
	Debit
)

func (p Polarity) String() string {
	switch p {
	case Credit:
		return "credit"
	case Debit:
		return "debit"
	default:
		return fmt.Sprintf("polarity(%d)", int(p))
	}
}

// Subkind says what a bank movement was for.
type Subkind string

const (
	SubCollection Subkind = "Collection"
	SubInvestment Subkind = "Investment"
	SubPayment    Subkind = "Payment"
	SubExpense    Subkind = "Expense"
	SubSettlement Subkind = "Settlement"
)

// TxnKind is the tagged bank transaction type: a polarity plus what it was for.
type TxnKind struct {
	Polarity Polarity
	Sub      Subkind
}

// The bank transaction types currently in use.
var (
	CollectionCredit = TxnKind{Credit, SubCollection}
	InvestmentCredit = TxnKind{Credit, SubInvestment}
	PaymentCredit    = TxnKind{Credit, SubPayment}
	ExpenseDebit     = TxnKind{Debit, SubExpense}
	SettlementCredit = TxnKind{Credit, SubSettlement}
	SettlementDebit  = TxnKind{Debit, SubSettlement}
)

// TxnKinds lists the known kinds in their canonical order.
var TxnKinds = []TxnKind{
	CollectionCredit,
	InvestmentCredit,
	PaymentCredit,
	ExpenseDebit,
	SettlementCredit,
	SettlementDebit,
}

var kindByLabel = func() map[string]TxnKind {
	m := make(map[string]TxnKind, len(TxnKinds))
	for _, k := range TxnKinds {
		m[canonicalLabel(k.String())] = k
	}
	return m
}()

// String returns the canonical label, e.g. "Settlement_Credit".
func (k TxnKind) String() string {
	if k.Polarity == Credit {
		return string(k.Sub) + "_Credit"
	}
	return string(k.Sub) + "_Debit"
}

// IsZero reports whether k is the zero TxnKind.
func (k TxnKind) IsZero() bool { return k == TxnKind{} }

// Sign returns +1 for credits and -1 for debits.
func (k TxnKind) Sign() decimal.Decimal {
	if k.Polarity == Debit {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// ParseTxnKind maps a raw transaction type label to its kind. Matching ignores
// case and treats spaces and hyphens like underscores. Labels outside the
// table are rejected.
func ParseTxnKind(label string) (TxnKind, bool) {
	k, ok := kindByLabel[canonicalLabel(label)]
	return k, ok
}

func canonicalLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, s)
}

// BankTransaction is one movement on the shared bank account.
type BankTransaction struct {
	Row      int
	Date     time.Time
	Actor    Actor
	RawActor string
	Kind     TxnKind
	Amount   decimal.Decimal // always non-negative; Kind carries the sign
	Reason   string

	Period period.Key
}

// HasDate reports whether the transaction carries a usable date.
func (t BankTransaction) HasDate() bool { return !t.Date.IsZero() }

// Signed returns the amount with the kind's sign applied.
func (t BankTransaction) Signed() decimal.Decimal { return t.Amount.Mul(t.Kind.Sign()) }
