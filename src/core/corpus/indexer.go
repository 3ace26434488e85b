// Package corpus feeds documents into the vector index: local files through
// the directory ingestor, crawled pages through the shared indexer.
package corpus

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"adminrag/src/core/rag"
	"adminrag/src/infrastructure/log"
	"adminrag/src/storage/minioctrl"
	"adminrag/src/storage/postgres/documentctrl"
)

// Indexer chunks a document, embeds the chunks and stores them in the
// vector index. The document catalog and the raw-text archive are optional
// collaborators.
type Indexer struct {
	chunker  *rag.Chunker
	embedder rag.Embedder
	index    rag.VectorIndex
	catalog  *documentctrl.DocumentService
	archive  *minioctrl.MinioService
	bucket   string
}

type IndexerOption func(ix *Indexer)

// WithCatalog records every indexed source in the document catalog.
func WithCatalog(catalog *documentctrl.DocumentService) IndexerOption {
	return func(ix *Indexer) {
		ix.catalog = catalog
	}
}

// WithArchive stores the extracted text of every indexed source in the
// given bucket.
func WithArchive(archive *minioctrl.MinioService, bucket string) IndexerOption {
	return func(ix *Indexer) {
		ix.archive = archive
		ix.bucket = bucket
	}
}

func NewIndexer(chunker *rag.Chunker, embedder rag.Embedder, index rag.VectorIndex, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		chunker:  chunker,
		embedder: embedder,
		index:    index,
	}

	for _, opt := range opts {
		opt(ix)
	}

	return ix
}

// IndexDocument splits the document into chunks, embeds and upserts them,
// and returns the number of chunks stored. Chunk ids are deterministic per
// (source, index), so indexing the same document twice overwrites rather
// than accumulates in id-keyed stores.
func (ix *Indexer) IndexDocument(ctx context.Context, doc rag.Document) (int, error) {
	texts := ix.chunker.Split(doc.Text)
	if len(texts) == 0 {
		log.Info("document produced no chunks", "source", doc.Name)
		return 0, nil
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks of %s: %w", doc.Name, err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks of %s", len(vectors), len(texts), doc.Name)
	}

	chunks := make([]rag.IndexedChunk, len(texts))
	for i, text := range texts {
		chunks[i] = rag.IndexedChunk{
			Chunk: rag.Chunk{
				ID:     ChunkID(doc, i),
				Source: doc.Name,
				Index:  i,
				Text:   text,
				Media:  doc.Media,
			},
			Vector: vectors[i],
		}
	}

	if err := ix.index.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to index chunks of %s: %w", doc.Name, err)
	}

	if ix.archive != nil {
		object := archiveObjectName(doc)
		if err := ix.archive.PutObject(ctx, ix.bucket, object, []byte(doc.Text)); err != nil {
			// Archival is best effort; the chunks are already indexed.
			log.Error(err, "failed to archive source text", "source", doc.Name, "object", object)
		}
	}

	if ix.catalog != nil {
		if _, err := ix.catalog.RecordIngest(ctx, doc.Name, string(doc.Media), len(chunks)); err != nil {
			log.Error(err, "failed to record source in catalog", "source", doc.Name)
		}
	}

	log.Debug("document indexed", "source", doc.Name, "chunks", len(chunks))
	return len(chunks), nil
}

// ChunkID builds the stable identifier of a chunk: the file stem for local
// documents, the host and path for web pages, suffixed with the chunk
// position.
func ChunkID(doc rag.Document, index int) string {
	if doc.Media == rag.MediaWeb {
		slug := doc.Name
		if u, err := url.Parse(doc.Name); err == nil && u.Host != "" {
			slug = u.Host + u.Path
		}
		return fmt.Sprintf("web_%s_%d", sanitize(slug), index)
	}

	base := filepath.Base(doc.Name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_%d", stem, index)
}

func archiveObjectName(doc rag.Document) string {
	if doc.Media == rag.MediaWeb {
		slug := doc.Name
		if u, err := url.Parse(doc.Name); err == nil && u.Host != "" {
			slug = u.Host + u.Path
		}
		return sanitize(slug) + ".txt"
	}
	return filepath.Base(doc.Name) + ".txt"
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
