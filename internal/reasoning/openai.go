package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/auditeng/verdict/internal/model"
)

// OpenAIProvider implements Provider over any OpenAI-compatible chat
// API (OpenAI itself, or a local Ollama endpoint via BaseURL)
type OpenAIProvider struct {
	client *openai.Client
	name   string
	cfg    model.ReasoningConfig
	log    *logrus.Logger
}

// NewOpenAIProvider creates an OpenAI-backed provider
func NewOpenAIProvider(cfg model.ReasoningConfig, log *logrus.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return newChatProvider("openai", cfg.APIKey, cfg, log), nil
}

// NewOllamaProvider creates a provider against a local Ollama endpoint
// using its OpenAI-compatible API. No API key is needed.
func NewOllamaProvider(cfg model.ReasoningConfig, log *logrus.Logger) *OpenAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434/v1"
	}
	return newChatProvider("ollama", "ollama", cfg, log)
}

func newChatProvider(name, apiKey string, cfg model.ReasoningConfig, log *logrus.Logger) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy: newProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
		},
	}
	if log == nil {
		log = logrus.New()
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		name:   name,
		cfg:    cfg,
		log:    log,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable checks the endpoint with a lightweight model listing
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	if _, err := p.client.ListModels(ctx); err != nil {
		p.log.WithError(err).Debugf("%s availability check failed", p.name)
		return false
	}
	return true
}

// judgmentPayload is the JSON shape the prompt asks the model for
type judgmentPayload struct {
	Narrative string `json:"narrative"`
	Flags     []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	} `json:"flags"`
}

// Judge asks the model for an advisory judgment of the extraction
func (p *OpenAIProvider) Judge(ctx context.Context, req JudgeRequest) (*model.ReasoningJudgment, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Extraction)
	}

	chatModel := p.cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	maxTokens := p.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}
	timeout := time.Duration(p.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an advisory reviewer of commissioning report data. You raise review flags; you never approve or reject.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	var payload judgmentPayload
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		// An unparseable judgment is discarded, not guessed at; the
		// caller degrades to a rules-only verdict.
		return nil, fmt.Errorf("unparseable judgment from %s: %w", p.name, err)
	}

	judgment := &model.ReasoningJudgment{
		Narrative: payload.Narrative,
		Provider:  p.name,
		Model:     chatModel,
	}
	for _, f := range payload.Flags {
		if f.Code == "" {
			continue
		}
		judgment.Flags = append(judgment.Flags, model.ReviewFlag{Code: f.Code, Detail: f.Detail})
	}
	return judgment, nil
}

// newProxyFunc builds a proxy selector from explicit settings, falling
// back to the environment
func newProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}
	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
