// Package embeddings provides text embedding providers behind a single
// capability set: a name (persisted next to every vector), a fixed dimension
// and single/batch embed calls. Vectors are L2-normalized so cosine distance
// in the store reduces to a dot product.
package embeddings

import "context"

// Provider is the capability set every embedding backend must implement in
// full. Backends that cannot are not registered by the factory.
type Provider interface {
	// Name identifies the provider+model. Rows written with different
	// names live in different vector spaces and must not be compared.
	Name() string

	// Dim is the vector dimension this provider produces.
	Dim() int

	// Embed returns a unit-norm vector for the text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one unit-norm vector per input text, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Config selects and parameterizes a provider. Populated from environment
// variables in cmd.
type Config struct {
	Provider  string
	ModelName string
	Dim       int

	OpenAIAPIKey string

	GigaChatAuthKey  string
	GigaChatScope    string
	GigaChatOAuthURL string
	GigaChatAPIBase  string
}
