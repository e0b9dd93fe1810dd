/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"strings"
	"testing"
)

const goodStory = `{
  "panels": [
    {"panel_number": 1, "scene_description": "A rooftop at dusk", "dialogue": "Hero: It's quiet.", "narration": ""},
    {"panel_number": 2, "scene_description": "A shadow moves", "dialogue": "", "narration": "Too quiet."}
  ]
}`

func TestParsePanels_PlainJSON(t *testing.T) {
	panels, err := ParsePanels(goodStory)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(panels) != 2 {
		t.Fatalf("got %d panels", len(panels))
	}
	if panels[0].PanelNumber != 1 || panels[0].SceneDescription != "A rooftop at dusk" {
		t.Fatalf("panel 0 = %+v", panels[0])
	}
	if panels[1].Narration != "Too quiet." {
		t.Fatalf("panel 1 = %+v", panels[1])
	}
}

func TestParsePanels_MarkdownFenced(t *testing.T) {
	raw := "Here is your story:\n```json\n" + goodStory + "\n```\nEnjoy!"
	panels, err := ParsePanels(raw)
	if err != nil {
		t.Fatalf("parse fenced: %v", err)
	}
	if len(panels) != 2 {
		t.Fatalf("got %d panels", len(panels))
	}
}

func TestParsePanels_BareArray(t *testing.T) {
	raw := `[{"panel_number": 1, "scene_description": "A desert"}]`
	panels, err := ParsePanels(raw)
	if err != nil {
		t.Fatalf("parse array: %v", err)
	}
	if len(panels) != 1 || panels[0].SceneDescription != "A desert" {
		t.Fatalf("got %+v", panels)
	}
}

func TestParsePanels_SchemaRejectsMissingScene(t *testing.T) {
	raw := `{"panels": [{"panel_number": 1}]}`
	if _, err := ParsePanels(raw); err == nil {
		t.Fatal("panel without scene_description should fail")
	}
}

func TestParsePanels_TextFallback(t *testing.T) {
	raw := strings.Join([]string{
		"Panel 1: A spaceship drifts past Saturn",
		"Dialogue: Captain: Status report!",
		"Narration: Day 400 of the voyage.",
		"Panel 2: The bridge, alarms blaring",
		"Dialogue: Ensign: Engines down!",
	}, "\n")
	panels, err := ParsePanels(raw)
	if err != nil {
		t.Fatalf("text fallback: %v", err)
	}
	if len(panels) != 2 {
		t.Fatalf("got %d panels: %+v", len(panels), panels)
	}
	if panels[0].Dialogue != "Captain: Status report!" {
		t.Fatalf("panel 0 dialogue = %q", panels[0].Dialogue)
	}
	if panels[1].SceneDescription != "The bridge, alarms blaring" {
		t.Fatalf("panel 1 = %+v", panels[1])
	}
}

func TestParsePanels_Garbage(t *testing.T) {
	if _, err := ParsePanels("total nonsense with no structure"); err == nil {
		t.Fatal("expected an error for unparseable input")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"prefix {\"a\":1} suffix", `{"a":1}`},
		{"  plain  ", "plain"},
	}
	for _, tc := range cases {
		if got := ExtractJSON(tc.in); got != tc.want {
			t.Errorf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFallbackStory(t *testing.T) {
	panels := FallbackStory("a lost robot", 7)
	if len(panels) != 7 {
		t.Fatalf("got %d panels", len(panels))
	}
	for i, p := range panels {
		if p.PanelNumber != i+1 {
			t.Fatalf("panel %d numbered %d", i, p.PanelNumber)
		}
		if !strings.Contains(p.SceneDescription, "a lost robot") {
			t.Fatalf("panel %d misses the topic: %q", i, p.SceneDescription)
		}
	}
	again := FallbackStory("a lost robot", 7)
	for i := range panels {
		if panels[i] != again[i] {
			t.Fatal("fallback story must be deterministic")
		}
	}
}

func TestFallbackStory_Defaults(t *testing.T) {
	panels := FallbackStory("  ", 0)
	if len(panels) != 1 {
		t.Fatalf("got %d panels", len(panels))
	}
	if panels[0].SceneDescription == "" {
		t.Fatal("blank topic should still yield a scene")
	}
}
