package model

import "github.com/barriolab/vecino/pkg/domain/types"

// ScoredCandidate is one retrieval result: a catalog record with its
// relevance score and live-computed annotations. Produced transiently per
// query, never persisted.
type ScoredCandidate struct {
	Record *Record
	// Score is the lexical relevance (>= 0) or the remote similarity,
	// depending on which retrieval strategy produced the candidate
	Score float64
	// DistanceKm is set only when the caller shared a location and the
	// record has coordinates
	DistanceKm *float64
	// Open is the precomputed open/closed state at query time
	Open types.OpenState
}

// MaxCandidates bounds every candidate list returned by retrieval.
const MaxCandidates = 12
