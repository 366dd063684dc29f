package model

// Actor identifies a known operator. The zero value means the row could not be
// attributed to any configured actor.
type Actor string

// Unattributed is the zero Actor.
const Unattributed Actor = ""

// IsKnown reports whether a is a resolved actor.
func (a Actor) IsKnown() bool { return a != Unattributed }

// ActorDef represents one configured actor and the raw spellings that map to it.
type ActorDef struct {
	ID      Actor
	Name    string
	Aliases []string
}
