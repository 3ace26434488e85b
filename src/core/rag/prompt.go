package rag

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// TemplateData holds the data needed to render the answer templates.
type TemplateData struct {
	Context  string
	Question string
}

// BuildPrompt renders the documentary context block and the question into
// the instruction template. Passages keep their retrieval order, each
// prefixed with a bracketed source tag and separated by blank lines.
func BuildPrompt(question string, passages []Passage) (system string, prompt string, err error) {
	blocks := make([]string, 0, len(passages))
	for _, p := range passages {
		blocks = append(blocks, fmt.Sprintf("[Source: %s]\n%s", p.Source, p.Text))
	}

	data := TemplateData{
		Context:  strings.Join(blocks, "\n\n"),
		Question: question,
	}

	var promptBuf bytes.Buffer
	t := template.Must(template.New("answer").Parse(AnswerPromptTmpl))
	if err := t.Execute(&promptBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute answer template: %w", err)
	}

	return strings.TrimSpace(AnswerSystemMessageTmpl), promptBuf.String(), nil
}

// ExtractSources returns the distinct source identifiers of the passages in
// first-seen order.
func ExtractSources(passages []Passage) []string {
	seen := make(map[string]struct{}, len(passages))
	sources := make([]string, 0, len(passages))
	for _, p := range passages {
		if _, ok := seen[p.Source]; ok {
			continue
		}
		seen[p.Source] = struct{}{}
		sources = append(sources, p.Source)
	}
	return sources
}
