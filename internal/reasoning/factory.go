package reasoning

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/auditeng/verdict/internal/model"
)

// NewProvider creates a reasoning provider from configuration. An
// empty provider name means reasoning is disabled and both return
// values are nil.
func NewProvider(cfg model.ReasoningConfig, log *logrus.Logger) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg, log)
	case "ollama":
		return NewOllamaProvider(cfg, log), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown reasoning provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}
