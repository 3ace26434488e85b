package rag

import (
	"context"
	"fmt"
	"strings"

	"adminrag/src/infrastructure/log"
)

// NoContextAnswer is returned when retrieval finds nothing to ground an
// answer on.
const NoContextAnswer = "Désolé, je n'ai pas trouvé d'information pertinente dans les documents."

// Pipeline composes retrieval, prompt assembly and generation into the
// answer operation exposed to the web layer. It holds the collaborator
// handles explicitly; each call runs to completion and keeps no state.
type Pipeline struct {
	retriever *Retriever
	generator *Generator
}

func NewPipeline(embedder Embedder, index VectorIndex, llm GenerationClient, model string) *Pipeline {
	return &Pipeline{
		retriever: NewRetriever(embedder, index),
		generator: NewGenerator(llm, model),
	}
}

// Answer retrieves up to k passages for the question, builds the grounded
// prompt and generates the answer. Generation failures degrade into a
// well-formed Answer describing the failure; they never propagate. The only
// error is an empty question, which the web boundary normally rejects first.
func (p *Pipeline) Answer(ctx context.Context, question string, k int) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question must not be empty")
	}

	log.Info("answering question", "question", question, "k", k)

	passages, err := p.retriever.Retrieve(ctx, question, k)
	if err != nil {
		log.Error(err, "retrieval failed", "question", question)
		return &Answer{
			Text:     fmt.Sprintf("Erreur lors de la recherche de contexte: %v", err),
			Sources:  []string{},
			Passages: []Passage{},
		}, nil
	}

	if len(passages) == 0 {
		log.Info("no relevant passages found", "question", question)
		return &Answer{
			Text:     NoContextAnswer,
			Sources:  []string{},
			Passages: []Passage{},
		}, nil
	}

	system, prompt, err := BuildPrompt(question, passages)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	result, err := p.generator.Generate(ctx, system, prompt)
	if err != nil {
		log.Error(err, "generation failed", "question", question)
		// Degraded answer: the caller still gets a well-formed response,
		// with the passages kept for diagnostics.
		return &Answer{
			Text:     fmt.Sprintf("Erreur lors de la génération de la réponse: %v", err),
			Sources:  []string{},
			Passages: passages,
		}, nil
	}

	log.Info("answer generated", "latency", result.Latency.String(), "passages", len(passages))

	return &Answer{
		Text:     result.Text,
		Sources:  ExtractSources(passages),
		Passages: passages,
	}, nil
}
