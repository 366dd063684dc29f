package actors

import "github.com/fleetledger/fleetledger/internal/model"

// DefaultActors returns the starter actor set written by `fleetledger init`:
// two co-managers who both collect and spend.
func DefaultActors() []model.ActorDef {
	return []model.ActorDef{
		{ID: "manager_a", Name: "Manager A", Aliases: []string{"A"}},
		{ID: "manager_b", Name: "Manager B", Aliases: []string{"B"}},
	}
}
