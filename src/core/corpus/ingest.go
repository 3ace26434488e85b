package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"adminrag/src/core/rag"
	"adminrag/src/infrastructure/log"
)

// Ingestor walks local directories and feeds every recognized file through
// the indexer.
type Ingestor struct {
	indexer  *Indexer
	progress func(processed, total int)
}

type IngestorOption func(ing *Ingestor)

// WithProgress reports after each processed file; total is the number of
// recognized files found in the directory.
func WithProgress(fn func(processed, total int)) IngestorOption {
	return func(ing *Ingestor) {
		ing.progress = fn
	}
}

func NewIngestor(indexer *Indexer, opts ...IngestorOption) *Ingestor {
	ing := &Ingestor{
		indexer: indexer,
	}

	for _, opt := range opts {
		opt(ing)
	}

	return ing
}

// IngestDirectory recursively processes every .pdf, .txt and .md file under
// root and returns the number of files successfully indexed. Unrecognized
// extensions are skipped silently; unreadable files are logged and skipped,
// they never abort the walk.
func (ing *Ingestor) IngestDirectory(ctx context.Context, root string) (int, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if mediaForExt(filepath.Ext(path)) != "" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk directory %s: %w", root, err)
	}

	log.Info("ingesting directory", "path", root, "files", len(files))

	processed := 0
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		if err := ing.ingestFile(ctx, path); err != nil {
			log.Error(err, "failed to ingest file", "path", path)
		} else {
			processed++
		}

		if ing.progress != nil {
			ing.progress(i+1, len(files))
		}
	}

	log.Info("directory ingested", "path", root, "processed", processed, "total", len(files))
	return processed, nil
}

func (ing *Ingestor) ingestFile(ctx context.Context, path string) error {
	media := mediaForExt(filepath.Ext(path))

	var text string
	var err error
	switch media {
	case rag.MediaPDF:
		text, err = extractPDF(path)
	case rag.MediaText:
		text, err = readTextFile(path)
	}
	if err != nil {
		return err
	}

	doc := rag.Document{
		Name:  filepath.Base(path),
		Text:  text,
		Media: media,
	}

	chunks, err := ing.indexer.IndexDocument(ctx, doc)
	if err != nil {
		return err
	}

	log.Debug("file ingested", "path", path, "chunks", chunks)
	return nil
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file %s is not valid UTF-8", path)
	}
	return string(data), nil
}

func mediaForExt(ext string) rag.MediaType {
	switch strings.ToLower(ext) {
	case ".pdf":
		return rag.MediaPDF
	case ".txt", ".md":
		return rag.MediaText
	default:
		return ""
	}
}
