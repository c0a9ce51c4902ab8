// Package config loads runtime configuration from the environment and
// sets up the application logger.
package config

import (
	"os"
	"strconv"
)

// Config holds everything the muse binary needs at startup.
type Config struct {
	// LLMProvider selects the chat backend: "ollama" or "anthropic".
	LLMProvider string

	// OllamaHost overrides the Ollama server URL for chat. Embeddings
	// follow OLLAMA_HOST, which the Ollama client reads itself.
	OllamaHost string

	// LLMModel is the chat model for intent detection and expansion.
	LLMModel string

	// AnthropicKey is used when LLMProvider is "anthropic". The SDK
	// also reads ANTHROPIC_API_KEY on its own.
	AnthropicKey string

	// EmbedModel and EmbedDimensions configure the embedding provider.
	EmbedModel      string
	EmbedDimensions int

	// DataDir is the long-term memory location on disk.
	DataDir string

	// BackendURL points at the text-to-image service.
	BackendURL string

	// ListenAddr is the websocket server address.
	ListenAddr string

	// OutputDir receives generated image files.
	OutputDir string

	// LogFile receives the JSON log stream.
	LogFile string
}

// Load reads the configuration from the environment, filling defaults
// for anything unset.
func Load() Config {
	return Config{
		LLMProvider:     getenv("MUSE_LLM_PROVIDER", "ollama"),
		OllamaHost:      os.Getenv("OLLAMA_HOST"),
		LLMModel:        getenv("MUSE_LLM_MODEL", "llama3"),
		AnthropicKey:    os.Getenv("ANTHROPIC_API_KEY"),
		EmbedModel:      getenv("MUSE_EMBED_MODEL", "all-minilm:l6-v2"),
		EmbedDimensions: getenvInt("MUSE_EMBED_DIMENSIONS", 384),
		DataDir:         getenv("MUSE_DATA_DIR", "./chroma_db"),
		BackendURL:      getenv("MUSE_BACKEND_URL", "http://localhost:8500"),
		ListenAddr:      getenv("MUSE_LISTEN_ADDR", ":8080"),
		OutputDir:       getenv("MUSE_OUTPUT_DIR", "./OutputImage"),
		LogFile:         getenv("MUSE_LOG_FILE", "./Logs/muse.log"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
