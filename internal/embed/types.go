// Package embed turns chunk text into vectors for the vector search leg.
// The default implementation is a dependency-free deterministic hash
// embedder; production deployments can plug in a model-backed Embedder.
package embed

import (
	"context"
	"math"
)

// DefaultBatchSize is the number of texts embedded per EmbedBatch call
// during indexing.
const DefaultBatchSize = 64

// StaticDimensions is the embedding width produced by StaticEmbedder, and
// the width the shared vector index is built for.
const StaticDimensions = 384

// Embedder turns text into fixed-width vectors. Implementations must be
// safe for concurrent use.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding width this embedder produces.
	Dimensions() int

	// ModelName identifies the embedder, stored alongside each chunk's
	// embedding so a model change can be detected as staleness.
	ModelName() string

	Close() error
}

// normalizeVector scales v to unit length so cosine distance behaves
// consistently regardless of input magnitude.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v
	}

	normalized := make([]float32, len(v))
	for i, val := range v {
		normalized[i] = float32(float64(val) / magnitude)
	}
	return normalized
}
