package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetledger/fleetledger/internal/period"
)

// Stream names one of the four input ledgers.
type Stream string

const (
	StreamCollection Stream = "collection"
	StreamExpense    Stream = "expense"
	StreamInvestment Stream = "investment"
	StreamBank       Stream = "bank"
)

// Streams lists every stream in ingestion order.
var Streams = []Stream{StreamCollection, StreamExpense, StreamInvestment, StreamBank}

// ParseStream accepts a stream name in either singular or plural form.
func ParseStream(s string) (Stream, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for _, st := range Streams {
		if string(st) == name {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stream %q", s)
}

// InvestmentSource tags where an investment figure was recorded.
type InvestmentSource string

const (
	SourceManual InvestmentSource = "manual"
	SourceBank   InvestmentSource = "bank"
)

// CollectionRecord is one day's cash collection for a vehicle.
type CollectionRecord struct {
	Row           int       // spreadsheet row in the source table; the header is row 1
	Date          time.Time // zero if the source date could not be parsed
	VehicleID     string
	Amount        decimal.Decimal
	Odometer      decimal.NullDecimal
	Collector     string
	ReceivedBy    Actor
	RawReceivedBy string

	Distance decimal.Decimal // derived by the distance package
	Period   period.Key
}

// HasDate reports whether the record carries a usable date.
func (r CollectionRecord) HasDate() bool { return !r.Date.IsZero() }

// ExpenseRecord is a payment made by an actor, optionally for a vehicle.
type ExpenseRecord struct {
	Row        int
	Date       time.Time
	VehicleID  string // empty for fleet-wide expenses
	Reason     string
	Amount     decimal.Decimal
	SpentBy    Actor
	RawSpentBy string

	Period period.Key
}

// HasDate reports whether the record carries a usable date.
func (r ExpenseRecord) HasDate() bool { return !r.Date.IsZero() }

// InvestmentRecord is external money brought into the business.
type InvestmentRecord struct {
	Row         int
	Date        time.Time
	Type        string
	Amount      decimal.Decimal
	Comment     string
	Investor    Actor
	RawInvestor string
	Source      InvestmentSource

	Period period.Key
}

// HasDate reports whether the record carries a usable date.
func (r InvestmentRecord) HasDate() bool { return !r.Date.IsZero() }
