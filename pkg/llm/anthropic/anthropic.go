// Package anthropic provides an Anthropic Messages API provider
// implementation built on the official SDK.
package anthropic

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ledgervox/ledgervox/pkg/llm"
	"github.com/ledgervox/ledgervox/pkg/types"
)

const defaultMaxTokens = 1024

// Provider implements the LLM provider interface for Anthropic models.
type Provider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	modelInfo *types.ModelInfo
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		p.model = model
	}
}

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(n int64) ProviderOption {
	return func(p *Provider) {
		p.maxTokens = n
	}
}

// NewProvider creates a new Anthropic provider with the given API key.
// If apiKey is empty, it is read from the ANTHROPIC_API_KEY environment
// variable.
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (provide via parameter or ANTHROPIC_API_KEY environment variable)")
	}

	p := &Provider{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     string(anthropic.ModelClaudeSonnet4_0),
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.modelInfo = &types.ModelInfo{
		Metadata:          make(map[string]interface{}),
		Provider:          "anthropic",
		Name:              p.model,
		SupportsStreaming: true,
		MaxTokens:         int(p.maxTokens),
	}
	return p, nil
}

// Complete sends messages to the Messages API and returns the full response.
func (p *Provider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	msg, err := p.client.Messages.New(ctx, p.buildParams(messages))
	if err != nil {
		return nil, llm.NewError(llm.ErrNetwork, err)
	}

	var content string
	for _, block := range msg.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	return types.NewAssistantMessage(content), nil
}

// StreamCompletion sends messages to the Messages API and streams back
// response chunks.
func (p *Provider) StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *llm.StreamChunk, error) {
	stream := p.client.Messages.NewStreaming(ctx, p.buildParams(messages))

	chunks := make(chan *llm.StreamChunk, 10)
	go func() {
		defer close(chunks)
		first := true
		for stream.Next() {
			event := stream.Current()
			switch ev := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok {
					out := &llm.StreamChunk{Content: delta.Text}
					if first {
						out.Role = string(types.RoleAssistant)
						first = false
					}
					select {
					case chunks <- out:
					case <-ctx.Done():
						chunks <- &llm.StreamChunk{Error: ctx.Err()}
						return
					}
				}
			case anthropic.MessageStopEvent:
				chunks <- &llm.StreamChunk{Finished: true}
			}
		}
		if err := stream.Err(); err != nil {
			chunks <- &llm.StreamChunk{Error: llm.NewError(llm.ErrNetwork, err)}
		}
	}()
	return chunks, nil
}

// buildParams converts our messages into Messages API parameters. System
// messages become the system prompt; the rest alternate user/assistant.
func (p *Provider) buildParams(messages []*types.Message) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	var turns []anthropic.MessageParam

	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case types.RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		System:    system,
		Messages:  turns,
	}
}

// GetModelInfo returns information about the Anthropic model being used.
func (p *Provider) GetModelInfo() *types.ModelInfo {
	return p.modelInfo
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}
