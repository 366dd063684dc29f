package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fleetledger/fleetledger/internal/model"
)

// Dimension is a grouping key.
type Dimension string

const (
	ByStream  Dimension = "stream"
	ByActor   Dimension = "actor"
	ByVehicle Dimension = "vehicle"
	ByPeriod  Dimension = "period"
	ByType    Dimension = "type"
)

// ParseDimensions parses a comma-separated list such as "actor,period".
func ParseDimensions(s string) ([]Dimension, error) {
	var dims []Dimension
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		d := Dimension(part)
		switch d {
		case ByStream, ByActor, ByVehicle, ByPeriod, ByType:
			dims = append(dims, d)
		case "month":
			dims = append(dims, ByPeriod)
		default:
			return nil, fmt.Errorf("unknown dimension %q", part)
		}
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("no dimensions in %q", s)
	}
	return dims, nil
}

func (f Fact) value(d Dimension) string {
	switch d {
	case ByStream:
		return string(f.Stream)
	case ByActor:
		return string(f.Actor)
	case ByVehicle:
		return f.Vehicle
	case ByPeriod:
		return string(f.Period)
	case ByType:
		return f.Type
	}
	return ""
}

// Row is one group of a Table.
type Row struct {
	Key      []string
	Sum      decimal.Decimal
	Count    int
	Average  decimal.Decimal // zero when Count is 0
	Distance decimal.Decimal
}

// Metric selects the value used to rank rows.
type Metric string

const (
	MetricSum      Metric = "sum"
	MetricCount    Metric = "count"
	MetricAverage  Metric = "average"
	MetricDistance Metric = "distance"
)

// ParseMetric parses a metric name.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case MetricSum, MetricCount, MetricAverage, MetricDistance:
		return m, nil
	case "", "total":
		return MetricSum, nil
	case "avg":
		return MetricAverage, nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

// Of returns the row's value for m.
func (r Row) Of(m Metric) decimal.Decimal {
	switch m {
	case MetricCount:
		return decimal.NewFromInt(int64(r.Count))
	case MetricAverage:
		return r.Average
	case MetricDistance:
		return r.Distance
	default:
		return r.Sum
	}
}

// Table is a grouped view: one row per distinct key, in first-seen order.
type Table struct {
	Dimensions []Dimension
	Rows       []Row
}

// Lookup returns the row whose key matches.
func (t Table) Lookup(key ...string) (Row, bool) {
	for _, r := range t.Rows {
		if equalKeys(r.Key, key) {
			return r, true
		}
	}
	return Row{}, false
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// averagePlaces is the precision of derived averages.
const averagePlaces = 2

// Group sums facts by the given dimensions. When grouping by period, facts
// without a period are left out.
func Group(facts []Fact, dims ...Dimension) Table {
	t := Table{Dimensions: dims}
	byPeriod := false
	for _, d := range dims {
		if d == ByPeriod {
			byPeriod = true
		}
	}

	pos := make(map[string]int)
	for _, f := range facts {
		if byPeriod && f.Period.IsNone() {
			continue
		}
		key := make([]string, len(dims))
		for i, d := range dims {
			key[i] = f.value(d)
		}
		id := strings.Join(key, "\x1f")
		i, ok := pos[id]
		if !ok {
			i = len(t.Rows)
			pos[id] = i
			t.Rows = append(t.Rows, Row{Key: key})
		}
		r := &t.Rows[i]
		r.Sum = r.Sum.Add(f.Amount)
		r.Distance = r.Distance.Add(f.Distance)
		r.Count++
	}
	for i := range t.Rows {
		t.Rows[i].Average = average(t.Rows[i].Sum, t.Rows[i].Count)
	}
	return t
}

// average returns sum/count, or zero for an empty group.
func average(sum decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return sum.DivRound(decimal.NewFromInt(int64(count)), averagePlaces)
}

// TopN returns the n rows with the highest metric. Ties keep their grouping
// order. n <= 0 returns every row ranked.
func TopN(t Table, m Metric, n int) Table {
	rows := make([]Row, len(t.Rows))
	copy(rows, t.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Of(m).GreaterThan(rows[j].Of(m))
	})
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return Table{Dimensions: t.Dimensions, Rows: rows}
}

// ActorLabels rewrites actor key cells with display names.
func ActorLabels(t Table, name func(model.Actor) string) Table {
	col := -1
	for i, d := range t.Dimensions {
		if d == ByActor {
			col = i
		}
	}
	if col < 0 {
		return t
	}
	out := Table{Dimensions: t.Dimensions, Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		key := append([]string(nil), r.Key...)
		key[col] = name(model.Actor(key[col]))
		r.Key = key
		out.Rows[i] = r
	}
	return out
}
