package nlp

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"
)

// comprehendAPI es el subconjunto del cliente de Comprehend que usamos.
type comprehendAPI interface {
	DetectKeyPhrases(ctx context.Context, params *comprehend.DetectKeyPhrasesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectKeyPhrasesOutput, error)
}

// ComprehendExtractor implementa KeyPhraseExtractor con AWS Comprehend.
type ComprehendExtractor struct {
	client comprehendAPI
}

func NewComprehendExtractor(cfg aws.Config) *ComprehendExtractor {
	return &ComprehendExtractor{client: comprehend.NewFromConfig(cfg)}
}

func (e *ComprehendExtractor) Extract(ctx context.Context, text, languageCode string) ([]string, error) {
	if languageCode == "" {
		languageCode = "en"
	}
	out, err := e.client.DetectKeyPhrases(ctx, &comprehend.DetectKeyPhrasesInput{
		Text:         aws.String(text),
		LanguageCode: types.LanguageCode(languageCode),
	})
	if err != nil {
		return nil, fmt.Errorf("detect key phrases: %w", err)
	}

	phrases := make([]string, 0, len(out.KeyPhrases))
	for _, kp := range out.KeyPhrases {
		if kp.Text != nil && *kp.Text != "" {
			phrases = append(phrases, *kp.Text)
		}
	}
	return phrases, nil
}
