// enricher.go — optional best-effort deep-analysis capability.
package stream

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	pkgerr "github.com/bio-agent/go-bridge-v2/pkg/errors"
)

// Enricher adds a short analysis note to a classified event. Enrichment is
// fire-and-forget: it never blocks primary event emission and its failures
// are swallowed by the caller.
type Enricher interface {
	Enrich(ctx context.Context, block string, ev Event) (string, error)
}

// NoopEnricher is the default: no enrichment, no network.
type NoopEnricher struct{}

func (NoopEnricher) Enrich(context.Context, string, Event) (string, error) {
	return "", nil
}

const enrichSystemPrompt = "You annotate events from a biomedical research agent. " +
	"Given one raw output block and its category, reply with a single short " +
	"sentence describing what the agent is doing. Plain text only."

// OpenAIEnricher asks a chat model for a one-line analysis of a block.
type OpenAIEnricher struct {
	client openai.Client
	model  string
}

// NewOpenAIEnricher builds an enricher for the given credentials. baseURL is
// optional.
func NewOpenAIEnricher(apiKey, baseURL, model string) *OpenAIEnricher {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIEnricher{client: openai.NewClient(opts...), model: model}
}

func (e *OpenAIEnricher) Enrich(ctx context.Context, block string, ev Event) (string, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: e.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(enrichSystemPrompt),
			openai.UserMessage("category: " + string(ev.Category) + "\n\n" + block),
		},
	})
	if err != nil {
		return "", pkgerr.Wrap(err, "Enricher.Enrich", "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", pkgerr.New("Enricher.Enrich", "empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
