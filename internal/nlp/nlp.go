package nlp

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// KeyPhraseExtractor extrae frases clave de texto libre.
type KeyPhraseExtractor interface {
	Extract(ctx context.Context, text, languageCode string) ([]string, error)
}

// EmbeddingBackend genera un vector de dimensión fija para un texto.
// Un retorno (nil, nil) significa que el modelo no produjo vector para ese
// input; es un resultado válido que el caller debe manejar, no un error.
type EmbeddingBackend interface {
	Embed(ctx context.Context, text string, dimension int) ([]float32, error)
}

// LoadAWSConfig resuelve credenciales y región con la cadena default del SDK.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
}
