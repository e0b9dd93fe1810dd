/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package story generates panel scripts through the Gemini API. The
// network call sits behind a small function value so tests exercise the
// retry and parsing paths without credentials.
package story

import (
	"context"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"comicforge/internal/domain"
	"comicforge/internal/limiter"
	applog "comicforge/internal/log"
	"comicforge/internal/script"
)

// Generator produces an ordered panel script for a topic.
type Generator interface {
	GenerateStory(ctx context.Context, topic string, panels int) ([]domain.PanelScript, error)
}

const maxAttempts = 3

// Client talks to the Gemini text models.
type Client struct {
	model       string
	temperature float32
	limit       limiter.Limiter

	// call performs one model invocation and returns the raw text.
	call func(ctx context.Context, prompt string) (string, error)
}

// New builds a Client backed by the real Gemini API.
func New(ctx context.Context, apiKey, model string, temperature float64, lim limiter.Limiter) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("story: api key missing")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("story: client: %w", err)
	}
	c := &Client{
		model:       model,
		temperature: float32(temperature),
		limit:       lim,
	}
	c.call = func(ctx context.Context, prompt string) (string, error) {
		resp, err := gc.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature: genai.Ptr(c.temperature),
		})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return c, nil
}

// GenerateStory asks the model for a panels-long story about topic and
// parses the response. Transient failures are retried with exponential
// backoff; pacing goes through the client's limiter.
func (c *Client) GenerateStory(ctx context.Context, topic string, panels int) ([]domain.PanelScript, error) {
	if panels < 1 {
		panels = 1
	}
	log := applog.WithComponent("story")
	prompt := buildPrompt(topic, panels)

	var result []domain.PanelScript
	op := func() error {
		if c.limit != nil {
			if err := c.limit.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		raw, err := c.call(ctx, prompt)
		if err != nil {
			log.Warn("story call failed, will retry", "err", err)
			return err
		}
		parsed, err := script.ParsePanels(raw)
		if err != nil {
			log.Warn("story response unparseable, will retry", "err", err)
			return err
		}
		result = parsed
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, maxAttempts-1), ctx)); err != nil {
		return nil, fmt.Errorf("story: generate: %w", err)
	}
	log.Info("story generated", "topic", topic, "panels", len(result))
	return result, nil
}

func buildPrompt(topic string, panels int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a comic story about %q as exactly %d panels.\n", topic, panels)
	b.WriteString("Respond with JSON only, no prose, in this shape:\n")
	b.WriteString(`{"panels": [{"panel_number": 1, "scene_description": "...", "dialogue": "Name: line | Other: line", "narration": "..."}]}` + "\n")
	b.WriteString("Separate multiple speakers in dialogue with \" | \". Use an empty string when a panel has no dialogue or narration.\n")
	return b.String()
}

// Fallback returns the deterministic offline story. Callers use it when
// generation ultimately fails so the pipeline still produces a comic.
func Fallback(topic string, panels int) []domain.PanelScript {
	return script.FallbackStory(topic, panels)
}
