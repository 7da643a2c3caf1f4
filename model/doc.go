// Package model defines the result types exchanged between the codec and
// downstream ranking logic.
//
//   - AnnCandidate: an (id, distance) pair, totally ordered by distance
//     ascending. NewAnnCandidate carries a +Inf distance sentinel so an
//     unfilled slot always loses a comparison.
package model
