package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"adminrag/src/core/corpus"
	"adminrag/src/core/crawler"
	"adminrag/src/core/rag"
	"adminrag/src/infrastructure/integrations/ollama"
	"adminrag/src/storage/minioctrl"
	"adminrag/src/storage/postgres/documentctrl"
	"adminrag/src/storage/weaviate"
)

// Shared construction of the process-wide collaborators. Every command
// builds its own explicit handles from config; nothing lives in globals.

func buildOllamaClient() *ollama.Client {
	timeout, err := time.ParseDuration(viper.GetString("ollama.timeout"))
	if err != nil {
		timeout = 120 * time.Second
	}

	return ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: timeout,
	})
}

func buildEmbedder(client *ollama.Client) *ollama.Embedder {
	return ollama.NewEmbedder(client, viper.GetString("ollama.embed_model"))
}

func buildVectorIndex() *weaviate.Index {
	wc := weaviateClient.New(weaviateClient.Config{
		Host:   viper.GetString("weaviate.host"),
		Scheme: viper.GetString("weaviate.scheme"),
	})
	return weaviate.NewIndex(weaviate.NewSDK(wc), viper.GetString("weaviate.class"))
}

func buildChunker() (*rag.Chunker, error) {
	return rag.NewChunker(
		viper.GetInt("chunker.size"),
		viper.GetInt("chunker.overlap"),
		rag.WithBoundaryThreshold(viper.GetFloat64("chunker.boundary_threshold")),
	)
}

func buildPostgres() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		viper.GetString("postgres.host"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
		viper.GetString("postgres.port"))
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// buildCatalog returns the document catalog, or nil when Postgres is not
// configured.
func buildCatalog() (*documentctrl.DocumentService, error) {
	if !viper.GetBool("postgres.enabled") {
		return nil, nil
	}

	db, err := buildPostgres()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	catalog, err := documentctrl.NewDocumentService(db)
	if err != nil {
		return nil, err
	}
	if err := catalog.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}

	return catalog, nil
}

// buildArchive returns the raw-text archive, or nil when MinIO is not
// configured.
func buildArchive() (*minioctrl.MinioService, string, error) {
	if !viper.GetBool("minio.enabled") {
		return nil, "", nil
	}

	archive, err := minioctrl.NewMinioService(
		viper.GetString("minio.endpoint"),
		viper.GetString("minio.access_key"),
		viper.GetString("minio.secret_key"),
		viper.GetBool("minio.use_ssl"),
	)
	if err != nil {
		return nil, "", err
	}

	bucket := viper.GetString("minio.corpus_bucket")
	if err := archive.EnsureBucketExists(context.Background(), bucket); err != nil {
		return nil, "", err
	}

	return archive, bucket, nil
}

func buildIndexer(embedder rag.Embedder, index rag.VectorIndex) (*corpus.Indexer, error) {
	chunker, err := buildChunker()
	if err != nil {
		return nil, err
	}

	var opts []corpus.IndexerOption

	catalog, err := buildCatalog()
	if err != nil {
		return nil, err
	}
	if catalog != nil {
		opts = append(opts, corpus.WithCatalog(catalog))
	}

	archive, bucket, err := buildArchive()
	if err != nil {
		return nil, err
	}
	if archive != nil {
		opts = append(opts, corpus.WithArchive(archive, bucket))
	}

	return corpus.NewIndexer(chunker, embedder, index, opts...), nil
}

func buildCrawler(indexer crawler.Indexer) *crawler.Crawler {
	timeout, err := time.ParseDuration(viper.GetString("crawler.timeout"))
	if err != nil {
		timeout = 10 * time.Second
	}
	delay, err := time.ParseDuration(viper.GetString("crawler.delay"))
	if err != nil {
		delay = time.Second
	}

	return crawler.NewCrawler(
		&http.Client{Timeout: timeout},
		indexer,
		crawler.WithDelay(delay),
		crawler.WithUserAgent(viper.GetString("crawler.user_agent")),
	)
}
