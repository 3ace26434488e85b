package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	jobctrl "adminrag/src/infrastructure/job"
	"adminrag/src/infrastructure/log"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background job worker",
	Long:  `The worker command consumes queued crawl jobs and indexes the fetched pages.`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	// Initialize logger
	logger := watermill.NewStdLogger(false, false)

	// Initialize PostgreSQL connection
	db, err := buildPostgres()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying *sql.DB for cleanup
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %w", err)
	}
	defer sqlDB.Close()

	// Initialize AMQP publisher
	amqpPublisher, err := amqp.NewPublisher(
		amqp.NewDurableQueueConfig(viper.GetString("amqp.url")),
		logger,
	)
	if err != nil {
		return err
	}
	defer amqpPublisher.Close()

	// Initialize AMQP subscriber
	subscriberConfig := amqp.NewDurableQueueConfig(viper.GetString("amqp.url"))
	subscriberConfig.Consume.NoRequeueOnNack = true
	amqpSubscriber, err := amqp.NewSubscriber(subscriberConfig, logger)
	if err != nil {
		return err
	}
	defer amqpSubscriber.Close()

	// Initialize router
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return err
	}

	// Add middleware
	router.AddMiddleware(
		middleware.Recoverer,
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: time.Second,
			Logger:          logger,
		}.Middleware,
	)

	// Initialize the crawl pipeline the jobs run through
	ollamaClient := buildOllamaClient()
	index := buildVectorIndex()
	if err := index.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("failed to ensure vector index schema: %w", err)
	}

	indexer, err := buildIndexer(buildEmbedder(ollamaClient), index)
	if err != nil {
		return err
	}

	crawlTask := jobctrl.NewCrawlTask(buildCrawler(indexer))

	// Initialize job repository and service
	jobRepo := jobctrl.NewPostgresJobRepository(db)
	if err := jobRepo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate jobs table: %w", err)
	}
	jobService := jobctrl.NewJobService(amqpPublisher, jobRepo, logger, crawlTask)

	// Add handler for processing jobs
	router.AddNoPublisherHandler(
		"job_processor",
		"jobs",
		amqpSubscriber,
		func(msg *message.Message) error {
			return jobService.ProcessJobMessage(msg)
		},
	)

	// Run the router
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := router.Run(ctx); err != nil {
			log.Error(err, "router stopped")
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	log.Info("shutting down worker")
	cancel()
	<-router.Running()
	log.Info("router stopped")

	return nil
}
