package embeddings

import (
	"context"
	"encoding/binary"
	"math"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// DefaultDim is the vector dimension used when no dimension is configured.
const DefaultDim = 384

// LocalHashProvider is the dependency-free reference provider: every
// lowercase whitespace token is hashed with blake2b, the hash picks a bucket
// and a sign, and the resulting vector is L2-normalized. Deterministic for
// identical text, so it doubles as the test provider.
type LocalHashProvider struct {
	name string
	dim  int
}

// NewLocalHashProvider creates a hashing provider with the given model name
// and dimension. Zero or negative dimensions fall back to DefaultDim.
func NewLocalHashProvider(name string, dim int) *LocalHashProvider {
	if name == "" {
		name = "hashing-v1"
	}
	if dim <= 0 {
		dim = DefaultDim
	}
	return &LocalHashProvider{name: name, dim: dim}
}

func (p *LocalHashProvider) Name() string { return p.name }

func (p *LocalHashProvider) Dim() int { return p.dim }

// Embed hashes each token into a signed bucket and normalizes the result.
// Empty text yields the zero vector.
func (p *LocalHashProvider) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, p.dim)

	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return vector, nil
	}

	for _, token := range tokens {
		digest := blake2b.Sum256([]byte(token))
		h := binary.BigEndian.Uint64(digest[:8])
		bucket := int(h % uint64(p.dim))
		if h&(1<<63) != 0 {
			vector[bucket] -= 1
		} else {
			vector[bucket] += 1
		}
	}

	normalize(vector)
	return vector, nil
}

func (p *LocalHashProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := p.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// normalize scales the vector to unit L2 norm in place. The zero vector is
// left untouched.
func normalize(vector []float32) {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
}
