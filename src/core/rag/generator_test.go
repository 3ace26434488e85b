package rag_test

import (
	"context"
	"errors"
	"testing"

	"adminrag/src/core/rag"
)

func TestGeneratorGenerate(t *testing.T) {
	tests := []struct {
		name     string
		client   *fakeGenerationClient
		wantText string
		wantErr  bool
	}{
		{
			name:     "successful generation",
			client:   &fakeGenerationClient{response: "Le passeport se demande en mairie."},
			wantText: "Le passeport se demande en mairie.",
		},
		{
			name:    "transport failure",
			client:  &fakeGenerationClient{err: errors.New("connection refused")},
			wantErr: true,
		},
		{
			name:    "empty completion",
			client:  &fakeGenerationClient{response: ""},
			wantErr: true,
		},
		{
			name:    "whitespace completion",
			client:  &fakeGenerationClient{response: " \n\t "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := rag.NewGenerator(tt.client, "mistral:latest")

			result, err := g.Generate(context.Background(), "system", "prompt")
			if tt.wantErr {
				if err == nil {
					t.Fatal("Generate returned nil error")
				}
				if !errors.Is(err, rag.ErrGeneration) {
					t.Errorf("Generate error = %v, want ErrGeneration", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if result.Text != tt.wantText {
				t.Errorf("Generate text = %q, want %q", result.Text, tt.wantText)
			}
		})
	}
}
