// internal/services/aiservice/service.go
package aiservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recruitment-chat/internal/common/config"
	"recruitment-chat/internal/common/errors"
	commonhttp "recruitment-chat/internal/common/http"
	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/models"
)

const degradedResponse = "I apologize, but I encountered an error processing your request. Please try again or contact support."

// Service calls an OpenAI-compatible chat completions endpoint. Transient
// failures are retried with exponential backoff inside the configured
// deadline; when every attempt fails the caller gets a degraded answer with
// zero confidence rather than an error.
type Service struct {
	config config.GenAIConfig
	client *commonhttp.Client
	logger logger.Logger
}

func New(cfg config.GenAIConfig, log logger.Logger) *Service {
	return &Service{
		config: cfg,
		client: commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		logger: log.WithFields(map[string]interface{}{"component": "aiservice"}),
	}
}

// AnalyzeQuery answers a recruiter question grounded on the current snapshot.
func (s *Service) AnalyzeQuery(ctx context.Context, query string, snapshot *models.Snapshot) *Analysis {
	response, err := s.complete(ctx, query, snapshot)
	if err != nil {
		s.logger.WithError(err).Error("completion failed, degrading", map[string]interface{}{
			"queryLength": len(query),
		})
		return &Analysis{
			Response:   degradedResponse,
			Reasoning:  "Reasoning not explicitly provided",
			Confidence: 0,
			Degraded:   true,
		}
	}

	return &Analysis{
		Response:   response,
		Reasoning:  extractReasoning(response),
		Confidence: 0.9,
	}
}

func (s *Service) complete(ctx context.Context, query string, snapshot *models.Snapshot) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(s.config.Timeout))
	defer cancel()

	payload := completionRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(query, buildContext(snapshot))},
		},
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeLLMSynthesisFailed, errors.KindInternal, "encode completion request", err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", errors.Wrap(errors.ErrCodeLLMTimeout, errors.KindInternal, "completion deadline exceeded", ctx.Err())
			}
		}

		text, retryable, err := s.attempt(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", errors.Wrap(errors.ErrCodeLLMTimeout, errors.KindInternal, "completion deadline exceeded", ctx.Err())
		}
		if !retryable {
			break
		}
	}
	return "", errors.Wrap(errors.ErrCodeLLMSynthesisFailed, errors.KindInternal, "completion failed", lastErr)
}

// attempt performs one request. The second return reports whether the failure
// is worth retrying (transport errors and 5xx/429 are, other statuses not).
func (s *Service) attempt(ctx context.Context, body []byte) (string, bool, error) {
	resp, err := s.client.PostJSON(ctx, s.config.BaseURL+"/chat/completions", body, s.config.APIKey)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return "", retryable, fmt.Errorf("status %d", resp.StatusCode)
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	if completion.Error != nil {
		return "", false, fmt.Errorf("upstream error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return "No response generated", false, nil
	}
	return completion.Choices[0].Message.Content, false, nil
}
