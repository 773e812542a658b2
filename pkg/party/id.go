// Package party defines party identifiers and the deterministic
// index-assignment rule used by both the party agent and the
// coordinator, per spec.md §9: "the source derives a protocol index
// from a SHA-256 of the party ID... Only the second step
// [lexicographic sort] is cryptographically meaningful." Only that
// second step is implemented here.
package party

import (
	"sort"

	"github.com/luxfi/thresh-eddsa/pkg/curve"
)

// ID is an opaque, human-assigned party identifier, e.g. "p0". It is
// exchanged on the wire; the protocol index derived from it (see
// AssignIndices) never is.
type ID string

// Scalar returns the 1-based protocol point for the given 0-based
// index, encoded as a scalar, i.e. Scalar(i) = (index+1)·1, matching
// VSS share evaluation at point (i+1). The receiver id is not consulted.
func (id ID) Scalar(index int) curve.Scalar {
	return curve.ScalarFromIndex(uint32(index + 1))
}

// Set is an ordered, deduplicated collection of IDs with their
// assigned protocol indices.
type Set struct {
	ids     []ID
	indexOf map[ID]int
}

// AssignIndices stably sorts ids lexicographically and assigns each a
// contiguous 0-based protocol index. Duplicate IDs are an error.
func AssignIndices(ids []ID) (*Set, error) {
	if len(ids) == 0 {
		return nil, errDuplicateOrEmpty("party: no parties registered")
	}
	sorted := make([]ID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	indexOf := make(map[ID]int, len(sorted))
	for i, id := range sorted {
		if _, dup := indexOf[id]; dup {
			return nil, errDuplicateOrEmpty("party: duplicate party id " + string(id))
		}
		indexOf[id] = i
	}
	return &Set{ids: sorted, indexOf: indexOf}, nil
}

// IDs returns the parties in assigned-index order.
func (s *Set) IDs() []ID { return s.ids }

// N returns the number of parties.
func (s *Set) N() int { return len(s.ids) }

// IndexOf returns the 0-based protocol index assigned to id.
func (s *Set) IndexOf(id ID) (int, bool) {
	idx, ok := s.indexOf[id]
	return idx, ok
}

// At returns the party ID assigned to a 0-based protocol index.
func (s *Set) At(index int) (ID, bool) {
	if index < 0 || index >= len(s.ids) {
		return "", false
	}
	return s.ids[index], true
}

type errDuplicateOrEmpty string

func (e errDuplicateOrEmpty) Error() string { return string(e) }
