/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package imagegen produces panel artwork through the Imagen API. A failed
// generation yields a captioned placeholder instead of an error, so the
// assembly pipeline never stalls on a missing panel.
package imagegen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"
	"google.golang.org/genai"

	_ "image/jpeg"
	_ "image/png"

	"comicforge/internal/limiter"
	applog "comicforge/internal/log"
)

// Kind tags the shape of a generation result. The variant is decoded once
// here at the boundary; nothing downstream branches on result shapes.
type Kind int

const (
	KindBytes Kind = iota
	KindFile
	KindURL
)

// Result is the raw outcome of one image generation call.
type Result struct {
	Kind  Kind
	Bytes []byte
	Path  string
	URL   string
}

// Generator yields one panel image per scene description.
type Generator interface {
	GeneratePanel(ctx context.Context, scene string, refPaths []string) image.Image
}

const maxAttempts = 3

// Client generates panel artwork. Reference images for character
// consistency are loaded from disk and cached between panels.
type Client struct {
	model    string
	refModel string
	artStyle string
	limit    limiter.Limiter
	refs     *gocache.Cache

	call func(ctx context.Context, prompt string, refs [][]byte) (Result, error)
}

// New builds a Client backed by the real generation APIs. Panels without
// reference images go through Imagen; panels with references go through
// the multimodal refModel so the reference images condition the output.
func New(ctx context.Context, apiKey, model, refModel, artStyle string, lim limiter.Limiter) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("imagegen: api key missing")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("imagegen: client: %w", err)
	}
	c := newClient(model, refModel, artStyle, lim)
	c.call = func(ctx context.Context, prompt string, refs [][]byte) (Result, error) {
		if len(refs) > 0 {
			resp, err := gc.Models.GenerateContent(ctx, c.refModel, refContents(prompt, refs), nil)
			if err != nil {
				return Result{}, err
			}
			return imageFromResponse(resp)
		}
		resp, err := gc.Models.GenerateImages(ctx, c.model, prompt, &genai.GenerateImagesConfig{
			NumberOfImages: 1,
		})
		if err != nil {
			return Result{}, err
		}
		if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
			return Result{}, fmt.Errorf("empty generation response")
		}
		return Result{Kind: KindBytes, Bytes: resp.GeneratedImages[0].Image.ImageBytes}, nil
	}
	return c, nil
}

func newClient(model, refModel, artStyle string, lim limiter.Limiter) *Client {
	return &Client{
		model:    model,
		refModel: refModel,
		artStyle: artStyle,
		limit:    lim,
		refs:     gocache.New(10*time.Minute, 30*time.Minute),
	}
}

// refContents packs the prompt and the reference images into a single
// user turn. Non-image reference bytes are dropped.
func refContents(prompt string, refs [][]byte) []*genai.Content {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, data := range refs {
		mime := http.DetectContentType(data)
		if !strings.HasPrefix(mime, "image/") {
			continue
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: data}})
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// imageFromResponse pulls the first inline image part out of a
// multimodal generation response.
func imageFromResponse(resp *genai.GenerateContentResponse) (Result, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Result{}, fmt.Errorf("empty generation response")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return Result{Kind: KindBytes, Bytes: part.InlineData.Data}, nil
		}
	}
	return Result{}, fmt.Errorf("no image in generation response")
}

// GeneratePanel returns artwork for the scene, retrying transient
// failures. When every attempt fails it returns a placeholder image
// carrying the scene caption; it never returns nil.
func (c *Client) GeneratePanel(ctx context.Context, scene string, refPaths []string) image.Image {
	log := applog.WithComponent("imagegen")
	prompt := c.buildPrompt(scene)

	var refs [][]byte
	for _, p := range refPaths {
		if data := c.loadReference(p); data != nil {
			refs = append(refs, data)
		}
	}

	var img image.Image
	op := func() error {
		if c.limit != nil {
			if err := c.limit.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		res, err := c.call(ctx, prompt, refs)
		if err != nil {
			log.Warn("image call failed, will retry", "err", err)
			return err
		}
		decoded, err := decode(ctx, res)
		if err != nil {
			log.Warn("image result undecodable, will retry", "err", err)
			return err
		}
		img = decoded
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, maxAttempts-1), ctx)); err != nil {
		log.Error("image generation failed, using placeholder", "scene", scene, "err", err)
		return Placeholder(scene)
	}
	return img
}

func (c *Client) buildPrompt(scene string) string {
	if c.artStyle == "" {
		return scene
	}
	return fmt.Sprintf("%s, %s style", scene, c.artStyle)
}

// loadReference reads and caches a character reference image file.
func (c *Client) loadReference(path string) []byte {
	if path == "" {
		return nil
	}
	if cached, ok := c.refs.Get(path); ok {
		return cached.([]byte)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		applog.WithComponent("imagegen").Warn("reference image unreadable", "path", path, "err", err)
		return nil
	}
	c.refs.Set(path, data, gocache.DefaultExpiration)
	return data
}

// decode materializes a Result into pixels regardless of its variant.
func decode(ctx context.Context, r Result) (image.Image, error) {
	var data []byte
	switch r.Kind {
	case KindBytes:
		data = r.Bytes
	case KindFile:
		b, err := os.ReadFile(r.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", r.Path, err)
		}
		data = b
	case KindURL:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", r.URL, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", r.URL, resp.StatusCode)
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		data = b
	default:
		return nil, fmt.Errorf("unknown result kind %d", r.Kind)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
