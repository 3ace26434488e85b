package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"adminrag/src/core/rag"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively from the terminal",
	Long:  `The chat command reads questions from stdin and prints the grounded answer with its sources. Type "exit" or "quitter" to leave.`,
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ollamaClient := buildOllamaClient()
	index := buildVectorIndex()

	if err := index.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("failed to ensure vector index schema: %w", err)
	}

	pipeline := rag.NewPipeline(
		buildEmbedder(ollamaClient),
		index,
		ollamaClient,
		viper.GetString("ollama.generate_model"),
	)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Votre question: ")
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		switch strings.ToLower(question) {
		case "exit", "quit", "quitter":
			fmt.Println("Au revoir!")
			return nil
		}

		answer, err := pipeline.Answer(cmd.Context(), question, rag.DefaultRetrievalLimit)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(answer.Text)
		if len(answer.Sources) > 0 {
			fmt.Println("\nSources consultées:")
			for _, source := range answer.Sources {
				fmt.Printf("  - %s\n", source)
			}
		}
		fmt.Println()
	}

	return scanner.Err()
}
