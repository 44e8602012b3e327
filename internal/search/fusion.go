package search

import (
	"sort"

	"github.com/Aman-CERP/codesearch/internal/store"
)

// FusionConfig configures the reciprocal rank fusion algorithm.
type FusionConfig struct {
	// TextWeight weights the full-text search leg in fusion.
	TextWeight float64
	// VectorWeight weights the vector search leg in fusion.
	VectorWeight float64
	// RRFConstant is the smoothing constant k in 1/(k+rank).
	RRFConstant int
}

// DefaultFusionConfig returns the weights and constant spec'd for hybrid
// search: vector similarity counts for slightly more than keyword overlap.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		TextWeight:   0.4,
		VectorWeight: 0.6,
		RRFConstant:  60,
	}
}

// Hit is one fused search result, identified by the chunk it points to.
type Hit struct {
	CodebaseID int64
	ChunkKey   string
	Score      float64
	InBoth     bool
}

// Fuse combines ranked text and vector matches using Reciprocal Rank
// Fusion: score(d) = Σ weight_i / (k + rank_i), rank 1-indexed. When a
// chunk appears in both legs, its codebase ID is taken from the text match
// (the two legs agree on it in every real case; the text leg is preferred
// as the more precise of the two signals) and the scores are summed.
// codebaseID scopes the text-search leg (FTS tables are always queried one
// codebase at a time); it seeds CodebaseID for hits the vector leg doesn't
// also surface. Pass 0 only if the caller doesn't need CodebaseID populated.
func Fuse(textMatches []*store.TextMatch, vectorMatches []*store.VectorMatch, codebaseID int64, cfg FusionConfig) []Hit {
	scores := make(map[string]*Hit, len(textMatches)+len(vectorMatches))

	for rank, m := range textMatches {
		rrf := cfg.TextWeight / float64(cfg.RRFConstant+rank+1)
		scores[m.ChunkKey] = &Hit{CodebaseID: codebaseID, ChunkKey: m.ChunkKey, Score: rrf}
	}

	for rank, m := range vectorMatches {
		rrf := cfg.VectorWeight / float64(cfg.RRFConstant+rank+1)
		if existing, ok := scores[m.ChunkKey]; ok {
			existing.Score += rrf
			existing.InBoth = true
			if existing.CodebaseID == 0 {
				existing.CodebaseID = m.CodebaseID
			}
			continue
		}
		scores[m.ChunkKey] = &Hit{CodebaseID: m.CodebaseID, ChunkKey: m.ChunkKey, Score: rrf}
	}

	out := make([]Hit, 0, len(scores))
	for _, h := range scores {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ChunkKey < out[j].ChunkKey
	})
	return out
}

// Truncate returns at most limit hits.
func Truncate(hits []Hit, limit int) []Hit {
	if limit <= 0 || len(hits) <= limit {
		return hits
	}
	return hits[:limit]
}
