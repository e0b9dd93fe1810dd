/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads the user-editable YAML configuration, applies
// environment overrides and resolves API keys from the OS keychain
// (with environment fallback for headless machines).
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	keyring "github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// StoryConfig configures the text-generation collaborator.
type StoryConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TimeoutMs   int     `yaml:"timeout_ms"`
	// API key is not stored on disk; it lives in the OS keychain or CF_GEMINI_API_KEY.
}

// ImageConfig configures the panel image collaborator.
type ImageConfig struct {
	Model     string `yaml:"model"`
	RefModel  string `yaml:"ref_model"` // multimodal model used when reference images condition a panel
	Style     string `yaml:"style"`     // appended to every panel prompt
	TimeoutMs int    `yaml:"timeout_ms"`
}

// SpeechConfig configures the narration TTS collaborator.
type SpeechConfig struct {
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	Voice     string `yaml:"voice"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// RenderConfig selects the dialogue rendering strategy and layout seed.
type RenderConfig struct {
	DialogueMode string `yaml:"dialogue_mode"` // "strip" (default) or "bubble"
	FontPath     string `yaml:"font_path"`     // optional TTF/OTF; built-in Go fonts when empty
	Seed         int64  `yaml:"seed"`          // 0 means time-derived
}

// VideoConfig configures the video sequencer output.
type VideoConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	OutputDir     string        `yaml:"output_dir"`
	Story         StoryConfig   `yaml:"story"`
	Image         ImageConfig   `yaml:"image"`
	Speech        SpeechConfig  `yaml:"speech"`
	Render        RenderConfig  `yaml:"render"`
	Video         VideoConfig   `yaml:"video"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		OutputDir:     "output",
		Story:         StoryConfig{Model: "gemini-2.0-flash", Temperature: 0.8, TimeoutMs: 60000},
		Image:         ImageConfig{Model: "imagen-3.0-generate-002", RefModel: "gemini-2.5-flash-image-preview", Style: "comic book", TimeoutMs: 120000},
		Speech:        SpeechConfig{BaseURL: "https://api.openai.com/v1", Model: "tts-1", Voice: "alloy", TimeoutMs: 60000},
		Render:        RenderConfig{DialogueMode: "strip"},
		Video:         VideoConfig{Width: 1920, Height: 1080, FPS: 24},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvOutputDir    = "CF_OUTPUT_DIR"
	EnvStoryModel   = "CF_STORY_MODEL"
	EnvImageModel   = "CF_IMAGE_MODEL"
	EnvSpeechURL    = "CF_SPEECH_URL"
	EnvSpeechVoice  = "CF_SPEECH_VOICE"
	EnvDialogueMode = "CF_DIALOGUE_MODE"
	EnvRenderSeed   = "CF_RENDER_SEED"
	// API key fallbacks for headless environments without a keychain.
	EnvGeminiKey = "CF_GEMINI_API_KEY"
	EnvSpeechKey = "CF_SPEECH_API_KEY"
	// Logging envs
	EnvLogLevel  = "CF_LOG_LEVEL"
	EnvLogFormat = "CF_LOG_FORMAT"
	EnvLogSource = "CF_LOG_SOURCE"
	EnvLogFile   = "CF_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService   = "Comicforge"
	KeyringGeminiKey = "gemini_api_key"
	KeyringSpeechKey = "speech_api_key"
)

// TokenStore abstracts the keyring, so we can stub in tests.
type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

var tokenStore TokenStore = osKeyring{}

type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error { return keyring.Delete(service, key) }

// SetTokenStore swaps the keyring implementation (tests only).
func SetTokenStore(ts TokenStore) { tokenStore = ts }

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Comicforge")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Comicforge")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "comicforge")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// APIKey resolves the named key from the OS keychain, falling back to the
// matching environment variable. An empty result means "not configured".
func APIKey(key string) string {
	if v, err := tokenStore.Get(keyringService, key); err == nil && v != "" {
		return v
	}
	switch key {
	case KeyringGeminiKey:
		return strings.TrimSpace(os.Getenv(EnvGeminiKey))
	case KeyringSpeechKey:
		return strings.TrimSpace(os.Getenv(EnvSpeechKey))
	}
	return ""
}

// StoreAPIKey persists the named key into the OS keychain.
func StoreAPIKey(key, value string) error {
	return tokenStore.Set(keyringService, key, value)
}

func mergeInto(dst, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.OutputDir) != "" {
		dst.OutputDir = src.OutputDir
	}
	if src.Story.Model != "" {
		dst.Story.Model = src.Story.Model
	}
	if src.Story.Temperature != 0 {
		dst.Story.Temperature = src.Story.Temperature
	}
	if src.Story.TimeoutMs != 0 {
		dst.Story.TimeoutMs = src.Story.TimeoutMs
	}
	if src.Image.Model != "" {
		dst.Image.Model = src.Image.Model
	}
	if src.Image.RefModel != "" {
		dst.Image.RefModel = src.Image.RefModel
	}
	if src.Image.Style != "" {
		dst.Image.Style = src.Image.Style
	}
	if src.Image.TimeoutMs != 0 {
		dst.Image.TimeoutMs = src.Image.TimeoutMs
	}
	if src.Speech.BaseURL != "" {
		dst.Speech.BaseURL = src.Speech.BaseURL
	}
	if src.Speech.Model != "" {
		dst.Speech.Model = src.Speech.Model
	}
	if src.Speech.Voice != "" {
		dst.Speech.Voice = src.Speech.Voice
	}
	if src.Speech.TimeoutMs != 0 {
		dst.Speech.TimeoutMs = src.Speech.TimeoutMs
	}
	if src.Render.DialogueMode != "" {
		dst.Render.DialogueMode = strings.ToLower(strings.TrimSpace(src.Render.DialogueMode))
	}
	if src.Render.FontPath != "" {
		dst.Render.FontPath = src.Render.FontPath
	}
	if src.Render.Seed != 0 {
		dst.Render.Seed = src.Render.Seed
	}
	if src.Video.Width != 0 {
		dst.Video.Width = src.Video.Width
	}
	if src.Video.Height != 0 {
		dst.Video.Height = src.Video.Height
	}
	if src.Video.FPS != 0 {
		dst.Video.FPS = src.Video.FPS
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		cfg.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStoryModel)); v != "" {
		cfg.Story.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvImageModel)); v != "" {
		cfg.Image.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSpeechURL)); v != "" {
		cfg.Speech.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSpeechVoice)); v != "" {
		cfg.Speech.Voice = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDialogueMode)); v != "" {
		cfg.Render.DialogueMode = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvRenderSeed)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Render.Seed = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
