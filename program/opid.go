package program

import "fmt"

// OpID is the stable numeric identifier of an operation in the encoding.
type OpID uint64

// The closed set of operation ids.
const (
	OpCircle OpID = iota
	OpTranslate

	opMax
)

var opNames = [opMax]string{
	OpCircle:    "circle",
	OpTranslate: "translate",
}

// String returns the authoring name of id, or "@N" for ids outside the set.
func (id OpID) String() string {
	if id.Valid() {
		return opNames[id]
	}
	return fmt.Sprintf("@%d", uint64(id))
}

// Valid reports whether id belongs to the closed operation set.
func (id OpID) Valid() bool {
	return id < opMax
}

// ParseOpID resolves an authoring name to its id.
func ParseOpID(name string) (OpID, bool) {
	for id, n := range opNames {
		if n == name {
			return OpID(id), true
		}
	}
	return 0, false
}

// OpIDs returns every id in the closed set in ascending order.
func OpIDs() []OpID {
	ids := make([]OpID, 0, opMax)
	for id := OpID(0); id < opMax; id++ {
		ids = append(ids, id)
	}
	return ids
}
