/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Deterministic text measurement and line breaking for comic lettering.
// All measurement goes through a Provider so renderers never touch font
// files directly and tests can swap in the fixed-advance basic face.

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name
	SizePt float32
	Weight int // 100..900; >=600 selects the bold cut
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float32
}

// LineHeight is the vertical advance between baselines.
func (m Metrics) LineHeight() float32 { return m.Ascent + m.Descent + m.LineGap }

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
type BasicProvider struct{}

func (BasicProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	return f, Metrics{
		Ascent:  float32(m.Ascent.Round()),
		Descent: float32(m.Descent.Round()),
		LineGap: float32(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// MeasureString returns the horizontal advance of s in pixels.
func MeasureString(face font.Face, s string) int {
	d := &font.Drawer{Face: face}
	return d.MeasureString(s).Round()
}

// Wrap breaks text into lines no wider than maxWidth pixels using greedy
// word wrapping on spaces. A single word wider than maxWidth is emitted on
// its own line rather than broken mid-word. Explicit newlines are honored.
// Empty input yields no lines.
func Wrap(face font.Face, text string, maxWidth int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			cand := cur + " " + w
			if maxWidth > 0 && MeasureString(face, cand) > maxWidth {
				lines = append(lines, cur)
				cur = w
				continue
			}
			cur = cand
		}
		lines = append(lines, cur)
	}
	return lines
}

// WrapSpec is a convenience over Wrap that resolves the face first.
func WrapSpec(p Provider, spec FontSpec, text string, maxWidth int) ([]string, font.Face, Metrics) {
	if p == nil {
		p = BasicProvider{}
	}
	face, met := p.Resolve(spec)
	return Wrap(face, text, maxWidth), face, met
}

// BlockSize measures the bounding box of pre-wrapped lines.
func BlockSize(face font.Face, met Metrics, lines []string) (w, h int) {
	for _, ln := range lines {
		if lw := MeasureString(face, ln); lw > w {
			w = lw
		}
	}
	h = len(lines) * int(met.LineHeight())
	return w, h
}
