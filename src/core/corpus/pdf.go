package corpus

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// extractPDF returns the plain text of every page in order, pages separated
// by a newline.
func extractPDF(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read PDF: %w", err)
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 0; i < numPages; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i+1, err)
		}
		buf.WriteString(text)
		buf.WriteByte('\n')
	}

	return buf.String(), nil
}
