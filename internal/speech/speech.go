/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package speech synthesizes per-panel narration audio through an
// OpenAI-compatible text-to-speech endpoint. Narration is best effort: a
// panel without audio simply plays silent in the video.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"comicforge/internal/limiter"
	applog "comicforge/internal/log"
)

// Synthesizer produces one audio clip per panel text. An empty path with a
// nil error means "no narration for this panel".
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outPath string) (string, error)
}

// Client calls the /audio/speech endpoint of an OpenAI-compatible server.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	Voice   string

	HTTPClient *http.Client
	limit      limiter.Limiter
}

func New(baseURL, apiKey, model, voice string, timeout time.Duration, lim limiter.Limiter) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Model:      model,
		Voice:      voice,
		HTTPClient: &http.Client{Timeout: timeout},
		limit:      lim,
	}
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize renders text to an MP3 at outPath. Blank text yields an empty
// path without touching the network.
func (c *Client) Synthesize(ctx context.Context, text, outPath string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if c.limit != nil {
		if err := c.limit.Wait(ctx); err != nil {
			return "", err
		}
	}

	body, err := json.Marshal(speechRequest{
		Model:          c.Model,
		Input:          text,
		Voice:          c.Voice,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return "", fmt.Errorf("speech: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("speech: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("speech: server status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("speech: output dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("speech: create %s: %w", outPath, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("speech: write %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("speech: close %s: %w", outPath, err)
	}
	applog.WithComponent("speech").Debug("clip synthesized", "path", outPath, "chars", len(text))
	return outPath, nil
}
