package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTxnKind(t *testing.T) {
	tests := []struct {
		label string
		want  TxnKind
		ok    bool
	}{
		{"Collection_Credit", CollectionCredit, true},
		{"collection_credit", CollectionCredit, true},
		{"  Investment Credit ", InvestmentCredit, true},
		{"Payment-Credit", PaymentCredit, true},
		{"EXPENSE_DEBIT", ExpenseDebit, true},
		{"Settlement_Credit", SettlementCredit, true},
		{"Settlement_Debit", SettlementDebit, true},
		{"Credit", TxnKind{}, false},
		{"Refund_Credit", TxnKind{}, false},
		{"", TxnKind{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseTxnKind(tt.label)
		assert.Equal(t, tt.ok, ok, "ParseTxnKind(%q)", tt.label)
		assert.Equal(t, tt.want, got, "ParseTxnKind(%q)", tt.label)
	}
}

func TestTxnKindString(t *testing.T) {
	for _, k := range TxnKinds {
		got, ok := ParseTxnKind(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "Settlement_Debit", SettlementDebit.String())
}

func TestBankTransactionSigned(t *testing.T) {
	credit := BankTransaction{Kind: PaymentCredit, Amount: decimal.NewFromInt(40)}
	debit := BankTransaction{Kind: ExpenseDebit, Amount: decimal.NewFromInt(40)}
	assert.True(t, credit.Signed().Equal(decimal.NewFromInt(40)))
	assert.True(t, debit.Signed().Equal(decimal.NewFromInt(-40)))
}

func TestActorIsKnown(t *testing.T) {
	assert.False(t, Unattributed.IsKnown())
	assert.True(t, Actor("ravi").IsKnown())
}

func TestParseStream(t *testing.T) {
	for in, want := range map[string]Stream{
		"collection":  StreamCollection,
		"Collections": StreamCollection,
		" expenses ":  StreamExpense,
		"investment":  StreamInvestment,
		"BANK":        StreamBank,
	} {
		got, err := ParseStream(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStream("fuel")
	assert.Error(t, err)
}
