package embeddings

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIProvider produces embeddings through the OpenAI embeddings API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	name   string
	dim    int
}

// NewOpenAIProvider creates an OpenAI-backed provider. The configured
// dimension must match the model's native dimension; the first embed call
// verifies this.
func NewOpenAIProvider(apiKey, model string, dim int) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai embedding provider requires an API key")
	}
	if model == "" {
		model = string(openai.EmbeddingModelTextEmbedding3Small)
	}
	if dim <= 0 {
		dim = DefaultDim
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client: &client,
		model:  model,
		name:   "openai:" + model,
		dim:    dim,
	}, nil
}

func (p *OpenAIProvider) Name() string { return p.name }

func (p *OpenAIProvider) Dim() int { return p.dim }

// Embed creates an embedding vector for the text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch creates embeddings for multiple texts in one API call.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model:      openai.EmbeddingModel(p.model),
		Dimensions: openai.Int(int64(p.dim)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		if len(data.Embedding) != p.dim {
			return nil, fmt.Errorf("model %s returned dimension %d, configured %d", p.model, len(data.Embedding), p.dim)
		}
		// API returns float64, the store keeps float32.
		vector := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vector[j] = float32(v)
		}
		normalize(vector)
		vectors[i] = vector
	}

	return vectors, nil
}
