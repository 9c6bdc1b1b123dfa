package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	retry "github.com/sethvargo/go-retry"
)

// bedrockAPI es el subconjunto del runtime de Bedrock que usamos.
type bedrockAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockEmbedder implementa EmbeddingBackend invocando un modelo Titan de
// embeddings en Bedrock. Reintenta con backoff ante throttling del servicio.
type BedrockEmbedder struct {
	client      bedrockAPI
	modelID     string
	maxRetries  uint64
	baseBackoff time.Duration
}

func NewBedrockEmbedder(cfg aws.Config, modelID string) *BedrockEmbedder {
	return &BedrockEmbedder{
		client:      bedrockruntime.NewFromConfig(cfg),
		modelID:     modelID,
		maxRetries:  3,
		baseBackoff: 200 * time.Millisecond,
	}
}

// titanRequest es el cuerpo que espera amazon.titan-embed-text-v2.
type titanRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions"`
	Normalize  bool   `json:"normalize"`
}

type titanResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (b *BedrockEmbedder) Embed(ctx context.Context, text string, dimension int) ([]float32, error) {
	payload, err := json.Marshal(titanRequest{
		InputText:  text,
		Dimensions: dimension,
		Normalize:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal titan request: %w", err)
	}

	var vector []float32
	backoff := retry.WithMaxRetries(b.maxRetries, retry.NewFibonacci(b.baseBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     aws.String(b.modelID),
			ContentType: aws.String("application/json"),
			Accept:      aws.String("*/*"),
			Body:        payload,
		})
		if err != nil {
			var throttled *types.ThrottlingException
			if errors.As(err, &throttled) {
				return retry.RetryableError(err)
			}
			return err
		}

		var parsed titanResponse
		if err := json.Unmarshal(out.Body, &parsed); err != nil {
			return fmt.Errorf("parse titan response: %w", err)
		}
		vector = parsed.Embedding
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("invoke embedding model %s: %w", b.modelID, err)
	}

	// El modelo puede no devolver vector para un input; no es un error.
	if len(vector) == 0 {
		return nil, nil
	}
	return vector, nil
}
