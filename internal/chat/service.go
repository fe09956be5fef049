// Package chat proxies chat turns to the configured OpenAI-compatible
// inference endpoint. The API key stays server-side and is scrubbed from
// every error surfaced to callers.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chatgate/chatgate/internal/config"
	"github.com/chatgate/chatgate/internal/logger"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrUpstreamUnavailable indicates the inference endpoint could not be
// reached at all
var ErrUpstreamUnavailable = errors.New("inference endpoint unavailable")

// UpstreamError indicates the inference endpoint answered with a
// non-success status. The message is sanitized before it reaches a caller.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("inference endpoint returned status %d: %s", e.StatusCode, e.Message)
}

// Service forwards chat turns to the inference API
type Service struct {
	client  *openai.Client
	persona *Persona
	model   string
	apiKey  string
}

// NewService creates a Service talking to the endpoint in cfg. The base URL
// makes the OpenAI client speak to Cerebras' compatible API.
func NewService(cfg *config.CerebrasConfig, persona *Persona) *Service {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	return &Service{
		client:  openai.NewClientWithConfig(clientCfg),
		persona: persona,
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
	}
}

// Persona returns the persona the service replies with
func (s *Service) Persona() *Persona {
	return s.persona
}

func (s *Service) completionRequest(message string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.persona.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens:   s.persona.MaxTokens,
		Temperature: s.persona.Temperature,
	}
}

// Complete forwards a single chat turn and returns the whole reply
func (s *Service) Complete(ctx context.Context, message string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, s.completionRequest(message))
	if err != nil {
		return "", s.classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", &UpstreamError{StatusCode: http.StatusBadGateway, Message: "no response generated"}
	}

	return resp.Choices[0].Message.Content, nil
}

// Stream forwards a single chat turn and delivers the reply incrementally
// through onDelta. Returning an error from onDelta stops the stream.
func (s *Service) Stream(ctx context.Context, message string, onDelta func(delta string) error) error {
	stream, err := s.client.CreateChatCompletionStream(ctx, s.completionRequest(message))
	if err != nil {
		return s.classify(err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return s.classify(err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if err := onDelta(resp.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
}

// classify maps a client error to one of the two upstream failure kinds.
// Anything that carried an HTTP status from the endpoint is an
// UpstreamError; everything else means the endpoint was unreachable.
func (s *Service) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		logger.Error("Inference endpoint returned an error",
			zap.Int("status", apiErr.HTTPStatusCode),
			zap.String("type", apiErr.Type),
		)
		return &UpstreamError{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    s.sanitize(apiErr.Message),
		}
	}

	// Non-JSON error bodies still carry a status
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		logger.Error("Inference endpoint returned an error",
			zap.Int("status", reqErr.HTTPStatusCode),
		)
		return &UpstreamError{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    s.sanitize(fmt.Sprintf("upstream returned status %d", reqErr.HTTPStatusCode)),
		}
	}

	logger.Error("Inference endpoint unreachable", zap.Error(err))
	return fmt.Errorf("%w: %s", ErrUpstreamUnavailable, s.sanitize(err.Error()))
}

// sanitize scrubs the server-held API key out of a message before it can
// reach a caller
func (s *Service) sanitize(message string) string {
	if s.apiKey == "" {
		return message
	}
	return strings.ReplaceAll(message, s.apiKey, "[redacted]")
}
