package model

import (
	"fmt"
	"math"
)

// AnnCandidate is a potential match produced by approximate search: a
// record identifier plus its estimated distance to the query. Candidates
// sort by distance ascending; ties break on ID for a stable total order.
type AnnCandidate struct {
	ID       uint64
	Distance float32
}

// NewAnnCandidate returns an empty candidate with the +Inf distance
// sentinel, so it compares worse than any real match.
func NewAnnCandidate() AnnCandidate {
	return AnnCandidate{Distance: float32(math.Inf(1))}
}

// Less reports whether c ranks strictly better than other.
func (c AnnCandidate) Less(other AnnCandidate) bool {
	if c.Distance != other.Distance {
		return c.Distance < other.Distance
	}
	return c.ID < other.ID
}

// String returns a string representation of the candidate.
func (c AnnCandidate) String() string {
	return fmt.Sprintf("Candidate(%d: %g)", c.ID, c.Distance)
}
