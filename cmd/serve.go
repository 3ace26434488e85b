package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpHdlr "adminrag/handler/http"
	"adminrag/src/core/rag"
	"adminrag/src/infrastructure/log"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the question answering server",
	Long:  `The serve command starts an HTTP server that answers questions grounded on the indexed corpus.`,
	Run:   RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer(cmd *cobra.Command, args []string) {
	// Initialize collaborators
	ollamaClient := buildOllamaClient()
	embedder := buildEmbedder(ollamaClient)
	index := buildVectorIndex()

	if err := index.EnsureSchema(cmd.Context()); err != nil {
		log.Error(err, "Failed to ensure vector index schema")
		return
	}

	catalog, err := buildCatalog()
	if err != nil {
		log.Error(err, "Failed to initialize document catalog")
		return
	}

	// Initialize the pipeline with its explicit collaborator handles
	pipeline := rag.NewPipeline(embedder, index, ollamaClient, viper.GetString("ollama.generate_model"))

	// Initialize HTTP handler
	handler := httpHdlr.NewHandler(pipeline, index, catalog)

	// Setup gin router
	r := gin.Default()
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			os.Exit(1)
		}
	}()

	log.Info("server started", "port", viper.GetString("server.port"))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Attempt graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("server exited")
}
