package normalize

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetledger/fleetledger/internal/model"
	"github.com/fleetledger/fleetledger/internal/period"
)

// Logical field names shared by the stream schemas.
const (
	fieldDate       = "date"
	fieldVehicle    = "vehicle_id"
	fieldAmount     = "amount"
	fieldOdometer   = "odometer_reading"
	fieldCollector  = "collector_name"
	fieldReceivedBy = "received_by"
	fieldReason     = "reason"
	fieldAmountUsed = "amount_used"
	fieldSpentBy    = "spent_by"
	fieldInvType    = "investment_type"
	fieldComment    = "comment"
	fieldInvestor   = "investor"
	fieldActor      = "actor"
	fieldTxnType    = "transaction_type"
)

var (
	errNegativeCollection = errors.New("collection amount must not be negative")
	errNegativeBank       = errors.New("bank amount must not be negative; the transaction type carries the direction")
)

var collectionSchema = schema{stream: model.StreamCollection, columns: []column{
	{name: fieldDate, required: true},
	{name: fieldVehicle, aliases: []string{"vehicle", "vehicle_no", "vehicle_number"}, required: true},
	{name: fieldAmount, aliases: []string{"collection", "collection_amount"}, required: true},
	{name: fieldOdometer, aliases: []string{"odometer", "meter_reading", "km_reading"}, required: true},
	{name: fieldCollector, aliases: []string{"collector", "driver", "name"}},
	{name: fieldReceivedBy, aliases: []string{"received", "receiver"}, required: true},
}}

var expenseSchema = schema{stream: model.StreamExpense, columns: []column{
	{name: fieldDate, required: true},
	{name: fieldVehicle, aliases: []string{"vehicle", "vehicle_no", "vehicle_number"}},
	{name: fieldReason, aliases: []string{"description", "purpose"}, required: true},
	{name: fieldAmountUsed, aliases: []string{"amount", "amount_spent"}, required: true},
	{name: fieldSpentBy, aliases: []string{"spent", "paid_by"}, required: true},
}}

var investmentSchema = schema{stream: model.StreamInvestment, columns: []column{
	{name: fieldDate, required: true},
	{name: fieldInvType, aliases: []string{"type"}},
	{name: fieldAmount, required: true},
	{name: fieldComment, aliases: []string{"comments", "note", "notes"}},
	{name: fieldInvestor, aliases: []string{"investor_name", "invested_by"}, required: true},
}}

var bankSchema = schema{stream: model.StreamBank, columns: []column{
	{name: fieldDate, required: true},
	{name: fieldActor, aliases: []string{"name", "person"}, required: true},
	{name: fieldTxnType, aliases: []string{"type", "txn_type"}, required: true},
	{name: fieldAmount, required: true},
	{name: fieldReason, aliases: []string{"comment", "comments", "description"}},
}}

// rowParser coerces the cells of one row and collects the warnings raised on
// the way.
type rowParser struct {
	stream   model.Stream
	row      int
	cells    []string
	layout   layout
	actors   ActorResolver
	warnings []error
}

func (p *rowParser) text(field string) string {
	return p.layout.get(p.cells, field)
}

func (p *rowParser) date() (time.Time, period.Key) {
	raw := p.text(fieldDate)
	if raw == "" {
		p.warn(fieldDate, raw, errors.New("blank date"))
		return time.Time{}, period.None
	}
	d, err := parseDate(raw)
	if err != nil {
		p.warn(fieldDate, raw, err)
		return time.Time{}, period.None
	}
	return d, period.Of(d)
}

func (p *rowParser) amount(field string) decimal.Decimal {
	raw := p.text(field)
	if raw == "" {
		return decimal.Zero
	}
	d, err := parseAmount(raw)
	if err != nil {
		p.warn(field, raw, err)
		return decimal.Zero
	}
	return d
}

func (p *rowParser) reading(field string) decimal.NullDecimal {
	raw := p.text(field)
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := parseAmount(raw)
	if err != nil {
		p.warn(field, raw, err)
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func (p *rowParser) actor(field string) (model.Actor, string) {
	raw := p.text(field)
	a, ok := p.actors.Resolve(raw)
	if !ok {
		p.warnings = append(p.warnings, &UnknownActorError{Stream: p.stream, Row: p.row, Field: field, Value: raw})
	}
	return a, raw
}

func (p *rowParser) warn(field, value string, err error) {
	p.warnings = append(p.warnings, &ParseError{Stream: p.stream, Row: p.row, Field: field, Value: value, Err: err})
}

// eachRow binds the schema and calls fn for every non-blank row. Row numbers
// follow the spreadsheet: the header is row 1.
func eachRow(s schema, t Table, actors ActorResolver, b *Batch, fn func(p *rowParser)) error {
	l, err := s.bind(t.Header)
	if err != nil {
		return err
	}
	b.Warnings = append(b.Warnings, t.Errors...)
	for i, cells := range t.Rows {
		if blankRow(cells) {
			continue
		}
		p := &rowParser{stream: s.stream, row: i + 2, cells: cells, layout: l, actors: actors}
		fn(p)
		b.Warnings = append(b.Warnings, p.warnings...)
	}
	return nil
}

// CollectionParser normalizes the daily collection sheet.
type CollectionParser struct{}

// Stream returns the stream this parser handles.
func (CollectionParser) Stream() model.Stream { return model.StreamCollection }

// Parse appends collection records to b.
func (CollectionParser) Parse(t Table, actors ActorResolver, b *Batch) error {
	var out []model.CollectionRecord
	err := eachRow(collectionSchema, t, actors, b, func(p *rowParser) {
		date, key := p.date()
		amount := p.amount(fieldAmount)
		if amount.IsNegative() {
			p.warn(fieldAmount, p.text(fieldAmount), errNegativeCollection)
			amount = decimal.Zero
		}
		actor, raw := p.actor(fieldReceivedBy)
		out = append(out, model.CollectionRecord{
			Row:           p.row,
			Date:          date,
			VehicleID:     p.text(fieldVehicle),
			Amount:        amount,
			Odometer:      p.reading(fieldOdometer),
			Collector:     p.text(fieldCollector),
			ReceivedBy:    actor,
			RawReceivedBy: raw,
			Period:        key,
		})
	})
	if err != nil {
		return err
	}
	b.Collections = append(b.Collections, out...)
	return nil
}

// ExpenseParser normalizes the expense sheet.
type ExpenseParser struct{}

// Stream returns the stream this parser handles.
func (ExpenseParser) Stream() model.Stream { return model.StreamExpense }

// Parse appends expense records to b.
func (ExpenseParser) Parse(t Table, actors ActorResolver, b *Batch) error {
	var out []model.ExpenseRecord
	err := eachRow(expenseSchema, t, actors, b, func(p *rowParser) {
		date, key := p.date()
		actor, raw := p.actor(fieldSpentBy)
		out = append(out, model.ExpenseRecord{
			Row:        p.row,
			Date:       date,
			VehicleID:  p.text(fieldVehicle),
			Reason:     p.text(fieldReason),
			Amount:     p.amount(fieldAmountUsed),
			SpentBy:    actor,
			RawSpentBy: raw,
			Period:     key,
		})
	})
	if err != nil {
		return err
	}
	b.Expenses = append(b.Expenses, out...)
	return nil
}

// InvestmentParser normalizes the manual investment sheet.
type InvestmentParser struct{}

// Stream returns the stream this parser handles.
func (InvestmentParser) Stream() model.Stream { return model.StreamInvestment }

// Parse appends investment records to b, tagged as manual entries.
func (InvestmentParser) Parse(t Table, actors ActorResolver, b *Batch) error {
	var out []model.InvestmentRecord
	err := eachRow(investmentSchema, t, actors, b, func(p *rowParser) {
		date, key := p.date()
		actor, raw := p.actor(fieldInvestor)
		out = append(out, model.InvestmentRecord{
			Row:         p.row,
			Date:        date,
			Type:        p.text(fieldInvType),
			Amount:      p.amount(fieldAmount),
			Comment:     p.text(fieldComment),
			Investor:    actor,
			RawInvestor: raw,
			Source:      model.SourceManual,
			Period:      key,
		})
	})
	if err != nil {
		return err
	}
	b.Investments = append(b.Investments, out...)
	return nil
}

// BankParser normalizes bank account movements. An unrecognized transaction
// type rejects the whole stream.
type BankParser struct{}

// Stream returns the stream this parser handles.
func (BankParser) Stream() model.Stream { return model.StreamBank }

// Parse appends bank transactions to b.
func (BankParser) Parse(t Table, actors ActorResolver, b *Batch) error {
	var out []model.BankTransaction
	var typeErr error
	staged := &Batch{}
	err := eachRow(bankSchema, t, actors, staged, func(p *rowParser) {
		label := p.text(fieldTxnType)
		kind, ok := model.ParseTxnKind(label)
		if !ok {
			if typeErr == nil {
				typeErr = &UnknownTypeError{Row: p.row, Label: label}
			}
			return
		}
		date, key := p.date()
		actor, raw := p.actor(fieldActor)
		amount := p.amount(fieldAmount)
		if amount.IsNegative() {
			p.warn(fieldAmount, p.text(fieldAmount), errNegativeBank)
			amount = amount.Abs()
		}
		out = append(out, model.BankTransaction{
			Row:      p.row,
			Date:     date,
			Actor:    actor,
			RawActor: raw,
			Kind:     kind,
			Amount:   amount,
			Reason:   p.text(fieldReason),
			Period:   key,
		})
	})
	if err != nil {
		return err
	}
	if typeErr != nil {
		return typeErr
	}
	b.Bank = append(b.Bank, out...)
	b.Warnings = append(b.Warnings, staged.Warnings...)
	return nil
}
