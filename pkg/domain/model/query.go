package model

// ExpandedQuery is a user utterance after synonym expansion: the original
// text plus the deduplicated, normalized term set consumed by the lexical
// scorer and used as the embedding seed.
type ExpandedQuery struct {
	// Original is the raw utterance as the user typed it
	Original string
	// Text is the original text with the expansion terms appended, used as
	// the embedding seed so that semantic search also benefits from synonyms
	Text string
	// Terms is the normalized term set (stopwords removed, length > 2)
	Terms []string
}

// IsEmpty reports whether expansion produced no usable terms
func (q ExpandedQuery) IsEmpty() bool {
	return len(q.Terms) == 0
}

// Location is a user-shared coordinate pair
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// EmbeddingDimension is the vector size used across the engine
// (text-embedding-3-small).
const EmbeddingDimension = 1536
