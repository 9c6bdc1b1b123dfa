package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"roomie-match/internal/domain"
	"roomie-match/internal/nlp"
	"roomie-match/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

// Scenario es un caso canónico de matching con el resultado esperado.
type Scenario struct {
	Name             string
	Subject          domain.Profile
	Candidate        domain.Profile
	ExpectCompatible bool
	ExpectReason     string
}

func main() {
	ctx := context.Background()

	// Backends mock: vector fijo, determinista, sin llamadas a AWS.
	extractor := &nlp.MockExtractor{Phrases: []string{"quiet", "early riser", "likes cooking"}}
	backend := &nlp.MockBackend{Vector: []float32{0.4, 0.3, 0.8, 0.1}}
	embedder := service.NewTextEmbedder(extractor, backend, 4, "en", zap.NewNop())
	engine := service.NewMatchEngine(embedder, service.CompatibilityFilter{}, 2, zap.NewNop())

	scenarios := []Scenario{
		{
			Name: "non-drinker requirement vs drinker",
			Subject: domain.Profile{
				ID:           "subject",
				Description:  "Quiet person, early riser.",
				Requirements: domain.PreferenceSet{Drinking: domain.TriTrue},
			},
			Candidate: domain.Profile{
				ID:          "cand-drinker",
				Description: "I enjoy a drink on weekends.",
				Traits:      domain.PreferenceSet{Drinking: domain.TriTrue},
			},
			ExpectCompatible: false,
			ExpectReason:     "Both people cannot drink.",
		},
		{
			Name: "same gender preference",
			Subject: domain.Profile{
				ID:           "subject",
				Description:  "Tidy and social.",
				Requirements: domain.PreferenceSet{Gender: "Male"},
			},
			Candidate: domain.Profile{
				ID:          "cand-male",
				Description: "Calm, works from home.",
				Traits:      domain.PreferenceSet{Gender: "Male"},
			},
			ExpectCompatible: true,
		},
		{
			Name: "different gender preference",
			Subject: domain.Profile{
				ID:           "subject",
				Description:  "Tidy and social.",
				Requirements: domain.PreferenceSet{Gender: "Male"},
			},
			Candidate: domain.Profile{
				ID:          "cand-female",
				Description: "Calm, works from home.",
				Traits:      domain.PreferenceSet{Gender: "Female"},
			},
			ExpectCompatible: false,
			ExpectReason:     "Gender preferences do not match.",
		},
		{
			Name: "no constraints at all",
			Subject: domain.Profile{
				ID:          "subject",
				Description: "Flexible about everything.",
			},
			Candidate: domain.Profile{
				ID:          "cand-flexible",
				Description: "Easy going.",
			},
			ExpectCompatible: true,
		},
	}

	failures := 0
	for _, sc := range scenarios {
		fmt.Printf("%s[Scenario]%s %s\n", colorCyan, colorReset, sc.Name)

		results, err := engine.Match(ctx, sc.Subject, []domain.Profile{sc.Candidate})
		if err != nil {
			fmt.Printf("  %sFAIL%s engine error: %v\n", colorRed, colorReset, err)
			failures++
			continue
		}
		res := results[0]

		ok := res.Compatible == sc.ExpectCompatible
		if ok && sc.ExpectReason != "" {
			ok = containsReason(res.Reasons, sc.ExpectReason)
		}

		if ok {
			fmt.Printf("  %sOK%s compatible=%v similarity=%.3f reasons=%v\n",
				colorGreen, colorReset, res.Compatible, res.Similarity, res.Reasons)
		} else {
			fmt.Printf("  %sFAIL%s got compatible=%v reasons=%v, expected compatible=%v reason=%q\n",
				colorRed, colorReset, res.Compatible, res.Reasons, sc.ExpectCompatible, sc.ExpectReason)
			failures++
		}
	}

	if failures > 0 {
		fmt.Printf("\n%s%d scenario(s) failed%s\n", colorRed, failures, colorReset)
		os.Exit(1)
	}
	fmt.Printf("\n%sall scenarios passed%s\n", colorGreen, colorReset)
}

func containsReason(reasons []string, want string) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}
