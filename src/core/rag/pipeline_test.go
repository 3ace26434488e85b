package rag_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"adminrag/src/core/rag"
)

func TestPipelineAnswerRejectsEmptyQuestion(t *testing.T) {
	p := rag.NewPipeline(&fakeEmbedder{vector: []float32{1}}, &fakeIndex{}, &fakeGenerationClient{response: "ok"}, "mistral:latest")

	for _, question := range []string{"", "   ", "\n\t"} {
		if _, err := p.Answer(context.Background(), question, 3); err == nil {
			t.Errorf("Answer(%q) = nil error, want rejection", question)
		}
	}
}

func TestPipelineAnswerWithoutContext(t *testing.T) {
	llm := &fakeGenerationClient{response: "should not be called"}
	p := rag.NewPipeline(&fakeEmbedder{vector: []float32{1}}, &fakeIndex{}, llm, "mistral:latest")

	answer, err := p.Answer(context.Background(), "Comment obtenir un passeport ?", 3)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if answer.Text != rag.NoContextAnswer {
		t.Errorf("Answer text = %q, want %q", answer.Text, rag.NoContextAnswer)
	}
	if len(answer.Sources) != 0 || len(answer.Passages) != 0 {
		t.Errorf("expected empty sources and passages, got %d and %d", len(answer.Sources), len(answer.Passages))
	}
	if len(llm.prompts) != 0 {
		t.Errorf("generation invoked %d times despite empty retrieval", len(llm.prompts))
	}
}

func TestPipelineAnswerDegradesOnGenerationFailure(t *testing.T) {
	passages := []rag.Passage{
		{Text: "Le passeport se demande en mairie.", Source: "passeport.pdf", Distance: 0.12},
	}
	llm := &fakeGenerationClient{err: errors.New("connection refused")}
	p := rag.NewPipeline(&fakeEmbedder{vector: []float32{1}}, &fakeIndex{passages: passages}, llm, "mistral:latest")

	answer, err := p.Answer(context.Background(), "Comment obtenir un passeport ?", 3)
	if err != nil {
		t.Fatalf("Answer returned error %v, want degraded answer", err)
	}

	if !strings.HasPrefix(answer.Text, "Erreur lors de la génération de la réponse:") {
		t.Errorf("Answer text = %q, want generation error message", answer.Text)
	}
	if len(answer.Sources) != 0 {
		t.Errorf("degraded answer carries sources %v, want none", answer.Sources)
	}
	if !reflect.DeepEqual(answer.Passages, passages) {
		t.Errorf("degraded answer lost passages: got %#v", answer.Passages)
	}
}

func TestPipelineAnswerDegradesOnEmptyCompletion(t *testing.T) {
	passages := []rag.Passage{
		{Text: "Le passeport se demande en mairie.", Source: "passeport.pdf", Distance: 0.12},
	}
	p := rag.NewPipeline(&fakeEmbedder{vector: []float32{1}}, &fakeIndex{passages: passages}, &fakeGenerationClient{response: "   "}, "mistral:latest")

	answer, err := p.Answer(context.Background(), "Comment obtenir un passeport ?", 3)
	if err != nil {
		t.Fatalf("Answer returned error %v, want degraded answer", err)
	}
	if !strings.HasPrefix(answer.Text, "Erreur lors de la génération de la réponse:") {
		t.Errorf("Answer text = %q, want generation error message", answer.Text)
	}
}

func TestPipelineAnswerSuccess(t *testing.T) {
	passages := []rag.Passage{
		{Text: "Le passeport se demande en mairie.", Source: "passeport.pdf", Distance: 0.12},
		{Text: "Des photos d'identité sont exigées.", Source: "passeport.pdf", Distance: 0.25},
		{Text: "La carte d'identité est gratuite.", Source: "cni.txt", Distance: 0.34},
	}
	llm := &fakeGenerationClient{response: "Le passeport se demande en mairie [Source: passeport.pdf]."}
	p := rag.NewPipeline(&fakeEmbedder{vector: []float32{1}}, &fakeIndex{passages: passages}, llm, "mistral:latest")

	answer, err := p.Answer(context.Background(), "Comment obtenir un passeport ?", 3)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if answer.Text != llm.response {
		t.Errorf("Answer text = %q, want %q", answer.Text, llm.response)
	}
	wantSources := []string{"passeport.pdf", "cni.txt"}
	if !reflect.DeepEqual(answer.Sources, wantSources) {
		t.Errorf("Answer sources = %v, want %v", answer.Sources, wantSources)
	}
	if !reflect.DeepEqual(answer.Passages, passages) {
		t.Errorf("Answer passages = %#v, want retrieval result", answer.Passages)
	}

	if len(llm.prompts) != 1 {
		t.Fatalf("generation invoked %d times, want 1", len(llm.prompts))
	}
	if !strings.Contains(llm.prompts[0], "[Source: passeport.pdf]") {
		t.Errorf("prompt missing source tag:\n%s", llm.prompts[0])
	}
	if !strings.Contains(llm.prompts[0], "Comment obtenir un passeport ?") {
		t.Errorf("prompt missing question:\n%s", llm.prompts[0])
	}
}

func TestPipelineAnswerDegradesOnRetrievalFailure(t *testing.T) {
	p := rag.NewPipeline(&fakeEmbedder{vector: []float32{1}}, &fakeIndex{queryErr: errors.New("index unreachable")}, &fakeGenerationClient{response: "ok"}, "mistral:latest")

	answer, err := p.Answer(context.Background(), "Comment obtenir un passeport ?", 3)
	if err != nil {
		t.Fatalf("Answer returned error %v, want degraded answer", err)
	}
	if !strings.HasPrefix(answer.Text, "Erreur lors de la recherche de contexte:") {
		t.Errorf("Answer text = %q, want retrieval error message", answer.Text)
	}
}
