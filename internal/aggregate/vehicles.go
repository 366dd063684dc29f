package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/fleetledger/fleetledger/internal/model"
)

// VehicleSummary rolls up one vehicle's collections, distance and expenses.
type VehicleSummary struct {
	VehicleID         string
	Trips             int // collection rows
	Collection        decimal.Decimal
	Distance          decimal.Decimal
	Expense           decimal.Decimal
	AverageCollection decimal.Decimal // per trip
	PerDistance       decimal.Decimal // collection per distance unit; zero without distance
	Net               decimal.Decimal // collection − expense
}

// Vehicles summarizes every vehicle that appears in collections or in
// vehicle-tagged expenses, in first-seen order. Fleet-wide expenses with no
// vehicle are not assigned to any vehicle.
func Vehicles(collections []model.CollectionRecord, expenses []model.ExpenseRecord) []VehicleSummary {
	pos := make(map[string]int)
	var out []VehicleSummary
	get := func(id string) *VehicleSummary {
		i, ok := pos[id]
		if !ok {
			i = len(out)
			pos[id] = i
			out = append(out, VehicleSummary{VehicleID: id})
		}
		return &out[i]
	}

	for _, c := range collections {
		v := get(c.VehicleID)
		v.Trips++
		v.Collection = v.Collection.Add(c.Amount)
		v.Distance = v.Distance.Add(c.Distance)
	}
	for _, e := range expenses {
		if e.VehicleID == "" {
			continue
		}
		v := get(e.VehicleID)
		v.Expense = v.Expense.Add(e.Amount)
	}

	for i := range out {
		v := &out[i]
		v.AverageCollection = average(v.Collection, v.Trips)
		if v.Distance.IsPositive() {
			v.PerDistance = v.Collection.DivRound(v.Distance, averagePlaces)
		}
		v.Net = v.Collection.Sub(v.Expense)
	}
	return out
}
