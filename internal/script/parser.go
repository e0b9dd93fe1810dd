/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script turns story-generator output into ordered panel scripts.
// Model responses arrive as JSON, often wrapped in markdown fences and
// sometimes malformed; parsing degrades stepwise from validated JSON to a
// line-oriented text format to a deterministic fallback story, so the
// pipeline always has something to draw.
package script

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"comicforge/internal/domain"
	applog "comicforge/internal/log"
)

// panelSchema validates the shape the story generator is prompted for.
const panelSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["panels"],
  "properties": {
    "panels": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["panel_number", "scene_description"],
        "properties": {
          "panel_number": {"type": "integer", "minimum": 1},
          "scene_description": {"type": "string", "minLength": 1},
          "dialogue": {"type": "string"},
          "narration": {"type": "string"}
        }
      }
    }
  }
}`

type panelJSON struct {
	PanelNumber      int    `json:"panel_number"`
	SceneDescription string `json:"scene_description"`
	Dialogue         string `json:"dialogue"`
	Narration        string `json:"narration"`
}

type storyJSON struct {
	Panels []panelJSON `json:"panels"`
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON strips a markdown code fence from a model response. Without
// a fence it falls back to the outermost object or array brackets,
// whichever opens first, then to the raw input.
func ExtractJSON(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	oStart, oEnd := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
	aStart, aEnd := strings.Index(raw, "["), strings.LastIndex(raw, "]")
	if aStart >= 0 && aEnd > aStart && (oStart < 0 || aStart < oStart) {
		return raw[aStart : aEnd+1]
	}
	if oStart >= 0 && oEnd > oStart {
		return raw[oStart : oEnd+1]
	}
	return strings.TrimSpace(raw)
}

// ParsePanels parses a story response into ordered panel scripts. JSON is
// tried first (schema-validated); a plain-text panel list second. The
// returned slice preserves the source's panel order.
func ParsePanels(raw string) ([]domain.PanelScript, error) {
	log := applog.WithComponent("script")

	payload := ExtractJSON(raw)
	panels, jsonErr := parseJSON(payload)
	if jsonErr == nil {
		return panels, nil
	}
	log.Debug("json parse failed, trying text format", "err", jsonErr)

	panels = parseText(raw)
	if len(panels) > 0 {
		return panels, nil
	}
	return nil, fmt.Errorf("script: unparseable story response: %w", jsonErr)
}

func parseJSON(payload string) ([]domain.PanelScript, error) {
	// A bare array response is tolerated by wrapping it.
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, "[") {
		trimmed = `{"panels":` + trimmed + `}`
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(panelSchema),
		gojsonschema.NewStringLoader(trimmed))
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("schema: %s", strings.Join(msgs, "; "))
	}

	var story storyJSON
	if err := json.Unmarshal([]byte(trimmed), &story); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	panels := make([]domain.PanelScript, 0, len(story.Panels))
	for _, p := range story.Panels {
		panels = append(panels, domain.PanelScript{
			PanelNumber:      p.PanelNumber,
			SceneDescription: strings.TrimSpace(p.SceneDescription),
			Dialogue:         strings.TrimSpace(p.Dialogue),
			Narration:        strings.TrimSpace(p.Narration),
		})
	}
	return panels, nil
}

var panelHeadRe = regexp.MustCompile(`(?i)^panel\s+(\d+)\s*[:.-]\s*(.*)$`)

// parseText handles the line-oriented emergency format:
//
//	Panel 1: a hero on a rooftop
//	Dialogue: Hero: Time to go.
//	Narration: Night falls.
func parseText(raw string) []domain.PanelScript {
	var panels []domain.PanelScript
	var cur *domain.PanelScript
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := panelHeadRe.FindStringSubmatch(line); m != nil {
			if cur != nil {
				panels = append(panels, *cur)
			}
			n, _ := strconv.Atoi(m[1])
			cur = &domain.PanelScript{PanelNumber: n, SceneDescription: strings.TrimSpace(m[2])}
			continue
		}
		if cur == nil {
			continue
		}
		switch {
		case strings.HasPrefix(strings.ToLower(line), "dialogue:"):
			cur.Dialogue = strings.TrimSpace(line[len("dialogue:"):])
		case strings.HasPrefix(strings.ToLower(line), "narration:"):
			cur.Narration = strings.TrimSpace(line[len("narration:"):])
		case cur.SceneDescription == "":
			cur.SceneDescription = line
		}
	}
	if cur != nil {
		panels = append(panels, *cur)
	}
	// Panels without any description are useless downstream.
	kept := panels[:0]
	for _, p := range panels {
		if p.SceneDescription != "" {
			kept = append(kept, p)
		}
	}
	return kept
}

// FallbackStory produces a deterministic n-panel story about topic for
// when the story generator is unreachable or unparseable.
func FallbackStory(topic string, n int) []domain.PanelScript {
	if n < 1 {
		n = 1
	}
	if strings.TrimSpace(topic) == "" {
		topic = "an unexpected adventure"
	}
	beats := []struct {
		scene     string
		narration string
	}{
		{"Establishing shot introducing %s.", "Our story begins."},
		{"A closer look at %s, tension building.", "Something is not right."},
		{"The situation around %s escalates dramatically.", "Things take a turn."},
		{"A decisive moment involving %s.", "There is no way back."},
		{"The aftermath of %s, dust settling.", "And so it ends... for now."},
	}
	panels := make([]domain.PanelScript, 0, n)
	for i := 0; i < n; i++ {
		b := beats[i%len(beats)]
		panels = append(panels, domain.PanelScript{
			PanelNumber:      i + 1,
			SceneDescription: fmt.Sprintf(b.scene, topic),
			Narration:        b.narration,
		})
	}
	return panels
}
