package cmd

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"adminrag/src/core/corpus"
	"adminrag/src/infrastructure/log"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <directory>",
	Short: "Index every document of a directory",
	Long: `The ingest command walks a directory recursively, extracts the text
of every PDF, text and Markdown file, and stores the resulting chunks in the
vector index. Unreadable files are skipped; they do not stop the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ollamaClient := buildOllamaClient()
	index := buildVectorIndex()

	if err := index.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("failed to ensure vector index schema: %w", err)
	}

	indexer, err := buildIndexer(buildEmbedder(ollamaClient), index)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	ingestor := corpus.NewIngestor(indexer, corpus.WithProgress(func(processed, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "ingesting")
		}
		_ = bar.Set(processed)
	}))

	processed, err := ingestor.IngestDirectory(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	count, err := index.Count(cmd.Context())
	if err != nil {
		log.Error(err, "failed to count indexed chunks")
	} else {
		fmt.Printf("Index contains %d chunks\n", count)
	}

	fmt.Printf("Processed %d documents from %s\n", processed, args[0])
	return nil
}
