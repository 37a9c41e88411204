// Command lectern is the entry point for the lectern CLI.
// It wires the driven adapters (storage, extraction, Ollama inference,
// config) into the core services and hands the driving ports to the
// command layer.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/lectern-labs/lectern-cli/internal/adapters/driven/config/file"
	embedollama "github.com/lectern-labs/lectern-cli/internal/adapters/driven/embedding/ollama"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driven/extractor"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driven/extractor/docx"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driven/extractor/pdf"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driven/extractor/plaintext"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driven/extractor/pptx"
	llmollama "github.com/lectern-labs/lectern-cli/internal/adapters/driven/llm/ollama"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driven/storage/sqlite"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/cli"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
	"github.com/lectern-labs/lectern-cli/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// A .env in the working directory overrides nothing that is
	// already set in the environment.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("initialising prompt store: %w", err)
	}

	store, err := sqlite.NewStore(configStore.GetString(driven.ConfigDataDir))
	if err != nil {
		return fmt.Errorf("opening index store: %w", err)
	}
	defer store.Close()

	baseURL := ollamaBaseURL(configStore)

	embedder := embedollama.NewEmbeddingService(embedollama.Config{
		BaseURL: baseURL,
		Model:   configStore.GetString(driven.ConfigEmbedModel),
	})
	llm := llmollama.NewGenerationService(llmollama.Config{
		BaseURL: baseURL,
		Model:   configStore.GetString(driven.ConfigGenerateModel),
	})

	registry := extractor.NewRegistry(
		plaintext.New(),
		pdf.New(),
		pptx.New(),
		docx.New(),
	)

	indexer := services.NewIndexManager(store, registry, embedder)

	reranker := services.NewReranker(llm)
	reranker.SetPromptStore(promptStore)
	search := services.NewSearchService(store, embedder, reranker)

	summarizer := services.NewSummarizerService(llm)
	summarizer.SetPromptStore(promptStore)

	chat := services.NewChatService(search, llm)
	chat.SetPromptStore(promptStore)

	cli.SetServices(cli.Services{
		Indexer:        indexer,
		Search:         search,
		Summary:        summarizer,
		Chat:           chat,
		WatchSupported: registry.Supported,
	})
	cli.SetVersion(version)

	return cli.Execute()
}

// ollamaBaseURL resolves the Ollama server URL: environment first,
// then the config file, then the adapter default.
func ollamaBaseURL(cfg driven.ConfigStore) string {
	if url := os.Getenv("LECTERN_OLLAMA_URL"); url != "" {
		return url
	}
	return cfg.GetString(driven.ConfigOllamaBaseURL)
}
