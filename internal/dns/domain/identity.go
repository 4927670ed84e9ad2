package domain

import "fmt"

type identityKind uint8

const (
	kindStable identityKind = iota + 1
	kindTentative
)

// TentativePrefix marks client-issued tokens so they are recognisable in
// rendered output.
const TentativePrefix = "tmp-"

// Identity names a row in the record table. A Stable identity is the
// server-issued record id. A Tentative identity is a client-issued token
// for a row the server has not confirmed yet; it is never transmitted.
//
// Identity is comparable, so it can key maps and be compared with ==.
type Identity struct {
	kind  identityKind
	value string
}

// Stable returns the identity of a persisted record.
func Stable(id string) Identity { return Identity{kind: kindStable, value: id} }

// Tentative returns a client-only identity.
func Tentative(token string) Identity { return Identity{kind: kindTentative, value: token} }

// NewTentative builds a token from a per-session counter and a creation
// timestamp in milliseconds.
func NewTentative(counter uint64, unixMilli int64) Identity {
	return Tentative(fmt.Sprintf("%s%d-%d", TentativePrefix, counter, unixMilli))
}

// IsTentative reports whether the identity was issued by the client.
func (i Identity) IsTentative() bool { return i.kind == kindTentative }

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool { return i.kind == 0 }

// Value returns the raw id or token.
func (i Identity) Value() string { return i.value }

// Equal reports structural equality.
func (i Identity) Equal(other Identity) bool { return i == other }

func (i Identity) String() string {
	if i.IsZero() {
		return "<none>"
	}
	return i.value
}
