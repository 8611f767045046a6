package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// LLM holds configuration for the OpenAI client used for answer
// composition and query embeddings
type LLM struct {
	apiKey         string
	model          string
	embeddingModel string
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key (composition and embeddings are disabled without it)",
			Sources:     cli.EnvVars("VECINO_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &l.apiKey,
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "OpenAI model for answer composition",
			Value:       "gpt-4o-mini",
			Sources:     cli.EnvVars("VECINO_OPENAI_MODEL"),
			Destination: &l.model,
		},
		&cli.StringFlag{
			Name:        "openai-embedding-model",
			Usage:       "OpenAI model for query embeddings",
			Value:       "text-embedding-3-small",
			Sources:     cli.EnvVars("VECINO_OPENAI_EMBEDDING_MODEL"),
			Destination: &l.embeddingModel,
		},
	}
}

// APIKey returns the configured OpenAI API key. Shared with the voice
// transcription service.
func (l *LLM) APIKey() string {
	return l.apiKey
}

// LogAttrs returns log attributes for the LLM configuration. The key is
// never logged.
func (l *LLM) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("configured", l.apiKey != ""),
		slog.String("model", l.model),
		slog.String("embedding_model", l.embeddingModel),
	}
}

// Configure creates an OpenAI client from the configured flags. Returns nil
// when no API key is set; the engine then falls back to lexical retrieval
// and raw candidate cards.
func (l *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if l.apiKey == "" {
		return nil, nil
	}

	client, err := openai.New(ctx, l.apiKey,
		openai.WithModel(l.model),
		openai.WithEmbeddingModel(l.embeddingModel),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create OpenAI client")
	}

	return client, nil
}
