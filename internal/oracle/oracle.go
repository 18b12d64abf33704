// Package oracle asks a language model for short in-character puzzle hints.
// Every failure degrades to a fixed fallback line; callers never see errors.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sashabaranov/go-openai"

	"github.com/vovakirdan/realm-rescue/internal/config"
	"github.com/vovakirdan/realm-rescue/internal/levels"
	"github.com/vovakirdan/realm-rescue/internal/progress"
)

// ErrNoAPIKey is returned when the configured API key variable is empty.
var ErrNoAPIKey = errors.New("oracle: API key not set")

// Fallback lines.
const (
	FallbackNoKey   = "The mists of the oracle are thick today... (API Key missing)"
	FallbackFailure = "The connection to the ethereal plane has been severed."
	FallbackSilent  = "The stars are silent."
)

// SystemPrompt sets the oracle's persona.
const SystemPrompt = "You are an ancient, mystical Oracle in a medieval fantasy game. " +
	"Provide a short, cryptic but helpful hint (under 30 words) for the player's current puzzle situation."

// Advisor produces hint text for a situation description.
type Advisor interface {
	Advise(ctx context.Context, situation string) (string, error)
}

// OpenAIAdvisor calls an OpenAI-compatible chat completion endpoint.
type OpenAIAdvisor struct {
	client *openai.Client
	model  string
}

// NewOpenAIAdvisor builds an advisor from config.
// The API key is read from the environment variable named by cfg.APIKeyEnv.
func NewOpenAIAdvisor(cfg config.OracleConfig) (*OpenAIAdvisor, error) {
	apiKey := strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
	if apiKey == "" {
		return nil, fmt.Errorf("%w: $%s is empty", ErrNoAPIKey, cfg.APIKeyEnv)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIAdvisor{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Advise implements Advisor.
func (a *OpenAIAdvisor) Advise(ctx context.Context, situation string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: Prompt(situation)},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("oracle: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Prompt wraps a situation in the question put to the oracle.
func Prompt(situation string) string {
	return fmt.Sprintf("The player is facing this challenge: %s. What is your wisdom?", situation)
}

// Situation describes the player's position for the oracle.
func Situation(levelName, hint string, gold int) string {
	return fmt.Sprintf("Level %s. Objective: %s. The player has %d gold.", levelName, hint, gold)
}

// SituationFor describes the highest unlocked level in the catalog.
// Returns false if that level is not in the catalog.
func SituationFor(p progress.Progress, catalog *levels.Catalog) (string, bool) {
	lvl, err := catalog.Get(p.HighestUnlocked())
	if err != nil {
		return "", false
	}
	return Situation(lvl.Name, lvl.Hint, p.Gold), true
}

// Oracle wraps an Advisor with a timeout and fallbacks.
type Oracle struct {
	advisor Advisor // Nil when no key is configured
	timeout time.Duration
	logger  *log.Logger
}

// New builds an oracle from config. A disabled oracle or a missing API key
// yields an oracle that always answers FallbackNoKey.
func New(cfg config.OracleConfig, logger *log.Logger) *Oracle {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	o := &Oracle{timeout: cfg.Timeout, logger: logger}
	if !cfg.Enabled {
		return o
	}

	advisor, err := NewOpenAIAdvisor(cfg)
	if err != nil {
		logger.Warn("oracle unavailable", "err", err)
		return o
	}
	o.advisor = advisor
	return o
}

// NewWithAdvisor builds an oracle around a given advisor.
func NewWithAdvisor(advisor Advisor, timeout time.Duration, logger *log.Logger) *Oracle {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Oracle{advisor: advisor, timeout: timeout, logger: logger}
}

// Available reports whether an advisor is configured.
func (o *Oracle) Available() bool {
	return o.advisor != nil
}

// Wisdom returns a hint for the situation, or a fallback line.
func (o *Oracle) Wisdom(ctx context.Context, situation string) string {
	if o.advisor == nil {
		return FallbackNoKey
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	text, err := o.advisor.Advise(ctx, situation)
	if err != nil {
		o.logger.Warn("oracle request failed", "err", err)
		return FallbackFailure
	}
	if strings.TrimSpace(text) == "" {
		return FallbackSilent
	}
	return text
}
