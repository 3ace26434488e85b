package cmd

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"adminrag/src/core/crawler"
	jobctrl "adminrag/src/infrastructure/job"
)

var crawlEnqueue bool

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl <url-file>",
	Short: "Crawl and index a list of URLs",
	Long: `The crawl command reads a file containing one URL per line, fetches
each page subject to its site's robots policy, and stores the extracted text
in the vector index. With --enqueue the batch is published as a background
job for the worker instead of running in-process.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().BoolVar(&crawlEnqueue, "enqueue", false, "publish the batch as a background job")
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	urls, err := crawler.ReadURLFile(args[0])
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", args[0])
	}

	if crawlEnqueue {
		return enqueueCrawl(cmd, urls)
	}

	ollamaClient := buildOllamaClient()
	index := buildVectorIndex()

	if err := index.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("failed to ensure vector index schema: %w", err)
	}

	indexer, err := buildIndexer(buildEmbedder(ollamaClient), index)
	if err != nil {
		return err
	}

	report, err := buildCrawler(indexer).CrawlBatch(cmd.Context(), urls)
	if err != nil {
		return err
	}

	fmt.Printf("Crawled %d/%d URLs\n", report.Succeeded, report.Total)
	return nil
}

func enqueueCrawl(cmd *cobra.Command, urls []string) error {
	db, err := buildPostgres()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := jobctrl.NewPostgresJobRepository(db)
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate jobs table: %w", err)
	}

	publisher, err := amqp.NewPublisher(
		amqp.NewDurableQueueConfig(viper.GetString("amqp.url")),
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return err
	}
	defer publisher.Close()

	jobService := jobctrl.NewJobService(publisher, repo, watermill.NewStdLogger(false, false), nil)

	job, err := jobService.EnqueueCrawl(cmd.Context(), urls)
	if err != nil {
		return err
	}

	fmt.Printf("Enqueued crawl job %d with %d URLs\n", job.ID, len(urls))
	return nil
}
