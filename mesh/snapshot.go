package mesh

import (
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical options so equal snapshots encode to equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("mesh: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot is a set of meshes keyed by the slot that produced them.
type Snapshot struct {
	Slots map[uint32]*Mesh `cbor:"slots"`
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{Slots: make(map[uint32]*Mesh)}
}

// Add records m under slot, replacing any previous entry.
func (s *Snapshot) Add(slot uint32, m *Mesh) {
	s.Slots[slot] = m
}

// SlotIDs returns the recorded slots in ascending order.
func (s *Snapshot) SlotIDs() []uint32 {
	ids := make([]uint32, 0, len(s.Slots))
	for id := range s.Slots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MarshalSnapshot serializes s to canonical CBOR.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// UnmarshalSnapshot deserializes a snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("mesh: unmarshal snapshot: %w", err)
	}
	if s.Slots == nil {
		s.Slots = make(map[uint32]*Mesh)
	}
	return &s, nil
}
