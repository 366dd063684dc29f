// Package normalize turns raw ledger tables into typed records. Bad cells are
// nulled and reported as warnings; structural problems reject the stream.
package normalize

import (
	"errors"
	"fmt"

	"github.com/fleetledger/fleetledger/internal/model"
)

// ActorResolver maps raw actor spellings to configured actors.
type ActorResolver interface {
	Resolve(raw string) (model.Actor, bool)
}

// Batch holds the normalized records of every stream plus the row-level
// warnings raised while building them.
type Batch struct {
	Collections []model.CollectionRecord
	Expenses    []model.ExpenseRecord
	Investments []model.InvestmentRecord
	Bank        []model.BankTransaction
	Warnings    []error
}

// BankInvestments projects Investment_Credit bank rows as investment records
// tagged with the bank source.
func (b *Batch) BankInvestments() []model.InvestmentRecord {
	var out []model.InvestmentRecord
	for _, t := range b.Bank {
		if t.Kind != model.InvestmentCredit {
			continue
		}
		out = append(out, model.InvestmentRecord{
			Row:         t.Row,
			Date:        t.Date,
			Type:        t.Kind.String(),
			Amount:      t.Amount,
			Comment:     t.Reason,
			Investor:    t.Actor,
			RawInvestor: t.RawActor,
			Source:      model.SourceBank,
			Period:      t.Period,
		})
	}
	return out
}

// AllInvestments returns manual investments followed by bank-credited ones.
// The two sources are not deduplicated.
func (b *Batch) AllInvestments() []model.InvestmentRecord {
	bank := b.BankInvestments()
	out := make([]model.InvestmentRecord, 0, len(b.Investments)+len(bank))
	out = append(out, b.Investments...)
	return append(out, bank...)
}

// Parser normalizes one stream's table into a Batch.
type Parser interface {
	Parse(t Table, actors ActorResolver, b *Batch) error
	Stream() model.Stream
}

// Registry holds one parser per stream.
type Registry struct {
	parsers map[model.Stream]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[model.Stream]Parser)}
}

// Register adds a parser. Panics on a duplicate stream.
func (r *Registry) Register(p Parser) {
	if _, ok := r.parsers[p.Stream()]; ok {
		panic("duplicate parser for stream: " + string(p.Stream()))
	}
	r.parsers[p.Stream()] = p
}

// Get returns the parser for stream, or nil.
func (r *Registry) Get(stream model.Stream) Parser {
	return r.parsers[stream]
}

// DefaultRegistry returns a registry with the four ledger parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CollectionParser{})
	r.Register(ExpenseParser{})
	r.Register(InvestmentParser{})
	r.Register(BankParser{})
	return r
}

// Normalize runs every table through its parser. A stream that fails is left
// empty in the returned Batch and its error is joined into the result, so
// callers can see which streams were rejected and why.
func (r *Registry) Normalize(tables []Table, actors ActorResolver) (*Batch, error) {
	b := &Batch{}
	var errs []error
	for _, t := range tables {
		p := r.Get(t.Stream)
		if p == nil {
			errs = append(errs, fmt.Errorf("no parser for stream %q", t.Stream))
			continue
		}
		if err := p.Parse(t, actors, b); err != nil {
			errs = append(errs, fmt.Errorf("normalizing %s: %w", t.Stream, err))
		}
	}
	return b, errors.Join(errs...)
}

