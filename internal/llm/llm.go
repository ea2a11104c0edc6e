package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"askgate/internal/config"
)

// Completer is the narrow view of the language-model backend the responders
// depend on. Each call is a single blocking completion; tool selection and
// streaming stay inside the backend.
type Completer interface {
	// Complete sends one flat prompt and returns the completion text.
	Complete(ctx context.Context, prompt string) (string, error)
	// Chat sends a role-tagged message sequence and returns the completion text.
	Chat(ctx context.Context, messages []*schema.Message) (string, error)
}

// Client wraps an eino chat model for a configured provider.
type Client struct {
	chatModel model.ToolCallingChatModel
}

// NewClient builds the chat model for the given provider using app config.
func NewClient(ctx context.Context, cfg *config.Config, provider, modelName string) (*Client, error) {
	provCfg, ok := cfg.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", provider)
	}
	if modelName == "" {
		modelName = provCfg.Model
	}

	var (
		chatModel model.ToolCallingChatModel
		err       error
	)
	switch provider {
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   modelName,
			APIKey:  provCfg.APIKey,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: provCfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("new gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  modelName,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     modelName,
			BaseURL:   baseURLPtr,
			MaxTokens: 3000,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}

	return &Client{chatModel: chatModel}, nil
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []*schema.Message{{Role: schema.User, Content: prompt}})
}

func (c *Client) Chat(ctx context.Context, messages []*schema.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("messages cannot be empty")
	}
	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}
	return resp.Content, nil
}
