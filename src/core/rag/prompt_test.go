package rag_test

import (
	"reflect"
	"strings"
	"testing"

	"adminrag/src/core/rag"
)

func TestBuildPrompt(t *testing.T) {
	passages := []rag.Passage{
		{Text: "Le passeport se demande en mairie.", Source: "passeport.pdf", Distance: 0.12},
		{Text: "La carte d'identité est gratuite.", Source: "cni.txt", Distance: 0.34},
	}

	system, prompt, err := rag.BuildPrompt("Comment obtenir un passeport ?", passages)
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}

	if !strings.Contains(system, "procédures administratives") {
		t.Errorf("system message missing assistant role, got %q", system)
	}

	wantFragments := []string{
		"CONTEXTE DOCUMENTAIRE:",
		"[Source: passeport.pdf]\nLe passeport se demande en mairie.",
		"[Source: cni.txt]\nLa carte d'identité est gratuite.",
		"QUESTION: Comment obtenir un passeport ?",
		"UNIQUEMENT",
		"RÉPONSE:",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing fragment %q\nprompt:\n%s", fragment, prompt)
		}
	}

	first := strings.Index(prompt, "[Source: passeport.pdf]")
	second := strings.Index(prompt, "[Source: cni.txt]")
	if first < 0 || second < 0 || first > second {
		t.Errorf("passages out of retrieval order: first at %d, second at %d", first, second)
	}
}

func TestBuildPromptNoPassages(t *testing.T) {
	_, prompt, err := rag.BuildPrompt("Question ?", nil)
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}
	if !strings.Contains(prompt, "QUESTION: Question ?") {
		t.Errorf("prompt missing question, got:\n%s", prompt)
	}
}

func TestExtractSources(t *testing.T) {
	tests := []struct {
		name     string
		passages []rag.Passage
		want     []string
	}{
		{
			name:     "no passages",
			passages: nil,
			want:     []string{},
		},
		{
			name: "distinct sources keep order",
			passages: []rag.Passage{
				{Source: "b.pdf"},
				{Source: "a.txt"},
			},
			want: []string{"b.pdf", "a.txt"},
		},
		{
			name: "duplicates collapse to first occurrence",
			passages: []rag.Passage{
				{Source: "a.pdf"},
				{Source: "b.pdf"},
				{Source: "a.pdf"},
				{Source: "b.pdf"},
			},
			want: []string{"a.pdf", "b.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rag.ExtractSources(tt.passages)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractSources() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
