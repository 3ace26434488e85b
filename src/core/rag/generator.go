package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adminrag/src/infrastructure/log"
)

// ErrGeneration marks failures of the generation service: unreachable,
// timed out, or an unusable response.
var ErrGeneration = errors.New("generation failed")

// GenerationResult carries the generated text and the time the generation
// call took.
type GenerationResult struct {
	Text    string
	Latency time.Duration
}

// Generator invokes the generation collaborator with fixed decoding options
// biased toward short, deterministic answers.
type Generator struct {
	client GenerationClient
	model  string
}

// Decoding options match the answering profile: low temperature for
// precision, nucleus cutoff, bounded output length.
var generationOptions = map[string]interface{}{
	"temperature": 0.3,
	"top_p":       0.9,
	"num_predict": 500,
}

func NewGenerator(client GenerationClient, model string) *Generator {
	return &Generator{
		client: client,
		model:  model,
	}
}

// Generate runs the model on the assembled prompt. All failures, including
// an empty completion, are reported as ErrGeneration.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (GenerationResult, error) {
	start := time.Now()

	text, err := g.client.Generate(ctx, g.model, system, prompt, generationOptions)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if strings.TrimSpace(text) == "" {
		return GenerationResult{}, fmt.Errorf("%w: empty response from model %s", ErrGeneration, g.model)
	}

	elapsed := time.Since(start)
	log.Debug("generation finished", "model", g.model, "latency", elapsed.String())

	return GenerationResult{
		Text:    text,
		Latency: elapsed,
	}, nil
}
