// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ai provides editorial assistance for the journal: excerpt and
// tag suggestions generated from a draft post body.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("ai assistance is not configured")

// maxBodyChars caps how much of a draft is sent to the model.
const maxBodyChars = 6000

// Service talks to the OpenAI API for draft suggestions.
type Service struct {
	client  openai.Client
	model   string
	enabled bool
}

// NewService creates an AI service. An empty API key disables it.
func NewService(apiKey, model string) *Service {
	if apiKey == "" {
		return &Service{}
	}
	return &Service{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		enabled: true,
	}
}

// Enabled reports whether suggestions are available.
func (s *Service) Enabled() bool {
	return s.enabled
}

// Suggestion holds generated metadata for a draft post.
type Suggestion struct {
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
}

const suggestionSystemPrompt = `You are an editor for a design studio's journal.
Given a draft article, you must respond with a valid JSON object (no markdown code fences, no extra text) with exactly these fields:

{
  "excerpt": "A compelling summary of the article in one or two sentences, under 200 characters",
  "tags": ["3 to 5 short lowercase topic tags"]
}

Important rules:
- The excerpt must read naturally, not like a list of keywords
- Tags are single words or short hyphenated phrases
- Respond ONLY with the JSON object, no other text`

// SuggestMetadata generates an excerpt and tags for a draft post.
func (s *Service) SuggestMetadata(ctx context.Context, title, body string) (*Suggestion, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}

	runes := []rune(body)
	if len(runes) > maxBodyChars {
		body = string(runes[:maxBodyChars])
	}

	userPrompt := fmt.Sprintf("Title: %s\n\nDraft:\n%s", title, body)

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(suggestionSystemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(512),
	})
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from model")
	}

	return parseSuggestion(resp.Choices[0].Message.Content)
}

// parseSuggestion decodes the model output, tolerating stray code fences.
func parseSuggestion(content string) (*Suggestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var out Suggestion
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion: %w", err)
	}

	if out.Excerpt == "" {
		return nil, errors.New("suggestion missing excerpt")
	}

	for i, tag := range out.Tags {
		out.Tags[i] = strings.ToLower(strings.TrimSpace(tag))
	}

	return &out, nil
}
