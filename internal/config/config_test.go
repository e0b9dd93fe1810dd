/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"testing"
)

type fakeStore struct{ m map[string]string }

func (f *fakeStore) Get(service, key string) (string, error) {
	if v, ok := f.m[service+"/"+key]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}
func (f *fakeStore) Set(service, key, value string) error {
	f.m[service+"/"+key] = value
	return nil
}
func (f *fakeStore) Delete(service, key string) error {
	delete(f.m, service+"/"+key)
	return nil
}

func TestDefaultsAreSane(t *testing.T) {
	d := Defaults()
	if d.Render.DialogueMode != "strip" {
		t.Fatalf("default dialogue mode = %q, want strip", d.Render.DialogueMode)
	}
	if d.Video.Width != 1920 || d.Video.Height != 1080 || d.Video.FPS != 24 {
		t.Fatalf("default video geometry = %dx%d@%d", d.Video.Width, d.Video.Height, d.Video.FPS)
	}
	if d.Story.Temperature <= 0 {
		t.Fatalf("default story temperature must be positive")
	}
}

func TestMergeIntoKeepsDefaultsForZeroValues(t *testing.T) {
	dst := Defaults()
	src := AppConfig{}
	src.Render.DialogueMode = "BUBBLE"
	src.Video.Width = 1280
	src.Image.RefModel = "gemini-custom"
	mergeInto(&dst, &src)
	if dst.Render.DialogueMode != "bubble" {
		t.Errorf("dialogue mode = %q, want bubble (lowercased)", dst.Render.DialogueMode)
	}
	if dst.Video.Width != 1280 {
		t.Errorf("video width = %d, want 1280", dst.Video.Width)
	}
	// untouched fields keep defaults
	if dst.Video.Height != 1080 {
		t.Errorf("video height = %d, want default 1080", dst.Video.Height)
	}
	if dst.Story.Model == "" {
		t.Errorf("story model lost during merge")
	}
	if dst.Image.RefModel != "gemini-custom" {
		t.Errorf("ref model = %q, want gemini-custom", dst.Image.RefModel)
	}
	if dst.Image.Model != Defaults().Image.Model {
		t.Errorf("image model lost during merge")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvDialogueMode, "Bubble")
	t.Setenv(EnvRenderSeed, "42")
	t.Setenv(EnvOutputDir, "/tmp/cf-out")
	cfg := Defaults()
	applyEnvOverrides(&cfg)
	if cfg.Render.DialogueMode != "bubble" {
		t.Errorf("dialogue mode = %q", cfg.Render.DialogueMode)
	}
	if cfg.Render.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Render.Seed)
	}
	if cfg.OutputDir != "/tmp/cf-out" {
		t.Errorf("output dir = %q", cfg.OutputDir)
	}
}

func TestAPIKeyKeyringThenEnvFallback(t *testing.T) {
	old := tokenStore
	defer SetTokenStore(old)

	fs := &fakeStore{m: map[string]string{}}
	SetTokenStore(fs)

	os.Unsetenv(EnvGeminiKey)
	if got := APIKey(KeyringGeminiKey); got != "" {
		t.Fatalf("expected empty key, got %q", got)
	}

	t.Setenv(EnvGeminiKey, "env-key")
	if got := APIKey(KeyringGeminiKey); got != "env-key" {
		t.Fatalf("env fallback = %q, want env-key", got)
	}

	if err := StoreAPIKey(KeyringGeminiKey, "ring-key"); err != nil {
		t.Fatalf("store key: %v", err)
	}
	if got := APIKey(KeyringGeminiKey); got != "ring-key" {
		t.Fatalf("keyring wins = %q, want ring-key", got)
	}
}
