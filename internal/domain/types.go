/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for the comicforge pipeline. Panel
// index is the correlation key used end-to-end: artwork, dialogue and
// narration for one story beat all share the same zero-based index and must
// never desynchronize across stages.

import "image"

// PanelScript is one record from the text-generation collaborator: a story
// beat with its visual description and optional dialogue/narration text.
// Dialogue takes precedence over narration when both are non-empty.
type PanelScript struct {
	PanelNumber      int    `json:"panel_number"`
	SceneDescription string `json:"scene_description"`
	Dialogue         string `json:"dialogue"`
	Narration        string `json:"narration"`
}

// Text returns the string used for rendering and narration: dialogue when
// present, narration otherwise.
func (p PanelScript) Text() string {
	if p.Dialogue != "" {
		return p.Dialogue
	}
	return p.Narration
}

// Panel is one story beat ready for composition: its artwork plus script.
// Index is the zero-based position within the whole comic.
type Panel struct {
	Index     int
	Image     image.Image
	Dialogue  string
	Narration string
}

// Text mirrors PanelScript.Text for assembled panels.
func (p Panel) Text() string {
	if p.Dialogue != "" {
		return p.Dialogue
	}
	return p.Narration
}

// Utterance is one speaker's line extracted from a panel's raw dialogue
// string. Speaker is empty for plain narration segments.
type Utterance struct {
	Speaker string
	Text    string
}

// PanelSlot is the rectangle on a page reserved for one panel's rendered
// content, in page-canvas pixel coordinates. PanelIndex refers to the global
// panel list.
type PanelSlot struct {
	PanelIndex int `json:"panel_index"`
	X          int `json:"x"`
	Y          int `json:"y"`
	Width      int `json:"width"`
	Height     int `json:"height"`
}

// Bounds returns the slot as an image.Rectangle.
func (s PanelSlot) Bounds() image.Rectangle {
	return image.Rect(s.X, s.Y, s.X+s.Width, s.Y+s.Height)
}

// PageLayout is the planned slot geometry for one page, in reading order.
// Slots never overlap and lie within the page's padded content area. The
// layout is read-only once produced by the planner; the assembler and the
// video sequencer both consume the identical geometry.
type PageLayout struct {
	Slots []PanelSlot
}

// PanelCount returns the number of panels placed on this page.
func (pl PageLayout) PanelCount() int { return len(pl.Slots) }

// SpeakerAnchor is a 2-D point a speech bubble's tail is aimed at,
// representing a speaker's on-image location. Anchors are ephemeral:
// recomputed per panel, never persisted.
type SpeakerAnchor struct {
	X, Y int
}

// Character describes one reusable cast member with the visual identity used
// to keep panel artwork consistent.
type Character struct {
	Name         string
	Role         string
	Description  string
	VisualTraits string
	RefImagePath string
}

// Comic holds the master panel list and the planned page geometry. Each
// pipeline stage derives new artifacts from it; no stage mutates the panels'
// source images in place.
type Comic struct {
	Panels  []Panel
	Layouts []PageLayout
}

// TotalSlots counts the planned slots across all pages.
func (c Comic) TotalSlots() int {
	n := 0
	for _, pl := range c.Layouts {
		n += len(pl.Slots)
	}
	return n
}
