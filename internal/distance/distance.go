// Package distance derives per-vehicle travel from sequential odometer
// readings and imputes odometer resets.
package distance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fleetledger/fleetledger/internal/model"
)

// Policy selects the mean used to replace negative deltas.
type Policy string

const (
	// PolicyFleet replaces every anomaly with the mean positive delta across
	// all vehicles.
	PolicyFleet Policy = "fleet"
	// PolicyVehicle uses the vehicle's own mean positive delta, falling back
	// to the fleet mean when the vehicle has none.
	PolicyVehicle Policy = "vehicle"
)

// ParsePolicy parses a policy name. The empty string selects PolicyFleet.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fleet":
		return PolicyFleet, nil
	case "vehicle":
		return PolicyVehicle, nil
	default:
		return "", fmt.Errorf("unknown distance policy %q", s)
	}
}

// Anomaly is a negative odometer delta that was replaced.
type Anomaly struct {
	VehicleID string
	Row       int
	Raw       decimal.Decimal
	Imputed   decimal.Decimal
}

// Report summarizes one estimation pass.
type Report struct {
	FleetMean decimal.Decimal // rounded mean of positive deltas; zero if none
	Anomalies []Anomaly
}

// series is one vehicle's readings in travel order, as indexes into the
// collection slice.
type series struct {
	vehicle string
	idx     []int
}

// Estimate fills Distance on a copy of recs. Each vehicle is handled on its
// own: readings are ordered by date (undated last, ties by row order), the
// first reading travels 0 and later ones travel the delta from the previous
// valid reading. A missing reading travels 0 and leaves the previous reading
// in place.
func Estimate(recs []model.CollectionRecord, policy Policy) ([]model.CollectionRecord, Report) {
	out := make([]model.CollectionRecord, len(recs))
	copy(out, recs)

	groups := groupByVehicle(out)

	raw := make([]decimal.Decimal, len(out))
	var fleetSum decimal.Decimal
	var fleetN int64
	vehicleMean := make(map[string]decimal.Decimal, len(groups))
	for _, g := range groups {
		var vSum decimal.Decimal
		var vN int64
		var prev decimal.NullDecimal
		for _, i := range g.idx {
			raw[i] = decimal.Zero
			odo := out[i].Odometer
			if !odo.Valid {
				continue
			}
			if prev.Valid {
				d := odo.Decimal.Sub(prev.Decimal)
				raw[i] = d
				if d.IsPositive() {
					vSum = vSum.Add(d)
					vN++
				}
			}
			prev = odo
		}
		fleetSum = fleetSum.Add(vSum)
		fleetN += vN
		if vN > 0 {
			vehicleMean[g.vehicle] = roundMean(vSum, vN)
		}
	}

	var rep Report
	if fleetN > 0 {
		rep.FleetMean = roundMean(fleetSum, fleetN)
	}

	for _, g := range groups {
		fill := rep.FleetMean
		if policy == PolicyVehicle {
			if m, ok := vehicleMean[g.vehicle]; ok {
				fill = m
			}
		}
		for _, i := range g.idx {
			d := raw[i]
			if d.IsNegative() {
				rep.Anomalies = append(rep.Anomalies, Anomaly{
					VehicleID: g.vehicle,
					Row:       out[i].Row,
					Raw:       d,
					Imputed:   fill,
				})
				d = fill
			}
			out[i].Distance = d
		}
	}
	return out, rep
}

// Series returns the distances of one vehicle in travel order.
func Series(recs []model.CollectionRecord, vehicle string) []decimal.Decimal {
	for _, g := range groupByVehicle(recs) {
		if g.vehicle != vehicle {
			continue
		}
		ds := make([]decimal.Decimal, len(g.idx))
		for j, i := range g.idx {
			ds[j] = recs[i].Distance
		}
		return ds
	}
	return nil
}

// groupByVehicle groups record indexes by vehicle in first-seen order and
// sorts each group into travel order.
func groupByVehicle(recs []model.CollectionRecord) []series {
	pos := make(map[string]int)
	var groups []series
	for i, r := range recs {
		j, ok := pos[r.VehicleID]
		if !ok {
			j = len(groups)
			pos[r.VehicleID] = j
			groups = append(groups, series{vehicle: r.VehicleID})
		}
		groups[j].idx = append(groups[j].idx, i)
	}
	for _, g := range groups {
		sort.SliceStable(g.idx, func(a, b int) bool {
			ra, rb := recs[g.idx[a]], recs[g.idx[b]]
			if !ra.HasDate() || !rb.HasDate() {
				return ra.HasDate() && !rb.HasDate()
			}
			return ra.Date.Before(rb.Date)
		})
	}
	return groups
}

// roundMean returns sum/n rounded half away from zero to a whole unit.
func roundMean(sum decimal.Decimal, n int64) decimal.Decimal {
	return sum.Div(decimal.NewFromInt(n)).Round(0)
}
