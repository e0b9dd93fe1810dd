/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package bubble

import (
	"image"
	"image/color"
	"strings"

	"comicforge/internal/anchor"
	"comicforge/internal/compose"
	"comicforge/internal/domain"
	"comicforge/internal/style"
	"comicforge/internal/textlayout"
)

// Renderer turns a panel image plus its raw dialogue/narration string into
// a lettered image. The output keeps the input width; the strip renderer
// may grow the height. Blank input must return an image of identical
// dimensions (no-op).
type Renderer interface {
	Render(img image.Image, raw string) *image.RGBA
}

// Mode names a dialogue rendering strategy.
type Mode string

const (
	ModeStrip  Mode = "strip"
	ModeBubble Mode = "bubble"
)

// ForMode builds the renderer configured by mode. Unknown modes get the
// strip renderer, the production default.
func ForMode(mode Mode, fonts textlayout.Provider, det anchor.Detector) Renderer {
	if mode == ModeBubble {
		return NewBubbleRenderer(fonts, det)
	}
	return NewStripRenderer(fonts)
}

// StripRenderer is the production renderer: labeled dialogue goes into a
// bordered gray strip appended below the panel; speaker-less text becomes
// a translucent narration overlay at the panel's bottom edge.
type StripRenderer struct {
	Fonts textlayout.Provider
}

func NewStripRenderer(fonts textlayout.Provider) *StripRenderer {
	return &StripRenderer{Fonts: fonts}
}

func (r *StripRenderer) Render(img image.Image, raw string) *image.RGBA {
	uts := ParseUtterances(raw)
	if len(uts) == 0 {
		return compose.Clone(img)
	}
	if hasSpeaker(uts) {
		return r.renderStrip(img, uts)
	}
	return r.renderNarration(img, uts)
}

func (r *StripRenderer) provider() textlayout.Provider {
	if r.Fonts == nil {
		return textlayout.BasicProvider{}
	}
	return r.Fonts
}

// stripLine is one wrapped display line. prefix holds the bold speaker
// label when this is the first line of an utterance.
type stripLine struct {
	prefix string
	text   string
}

// renderStrip grows the canvas downward and letters each utterance into
// the new region, speaker label bold and line text regular.
func (r *StripRenderer) renderStrip(img image.Image, uts []domain.Utterance) *image.RGBA {
	p := r.provider()
	regular, met := p.Resolve(textlayout.FontSpec{SizePt: style.StripFontSize})
	bold, _ := p.Resolve(textlayout.FontSpec{SizePt: style.StripFontSize, Weight: 700})

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	maxW := w - 2*style.StripPaddingX

	var lines []stripLine
	for _, u := range uts {
		for i, ln := range textlayout.Wrap(regular, formatLine(u), maxW) {
			sl := stripLine{text: ln}
			if i == 0 && u.Speaker != "" {
				label := u.Speaker + ":"
				if strings.HasPrefix(ln, label) {
					sl.prefix = label
					sl.text = strings.TrimPrefix(ln, label)
				}
			}
			lines = append(lines, sl)
		}
	}

	stripH := len(lines)*style.StripLineHeight + 2*style.StripPaddingY
	out := image.NewRGBA(image.Rect(0, 0, w, h+stripH))
	fillRect(out, out.Bounds(), style.PageBackground)
	compose.Paste(out, img, 0, 0)

	strip := image.Rect(0, h, w, h+stripH)
	fillRect(out, strip, style.StripBackground)
	strokeRect(out, strip, style.StripBorder)

	ascent := int(met.Ascent)
	for i, ln := range lines {
		x := style.StripPaddingX
		baseline := h + style.StripPaddingY + i*style.StripLineHeight + ascent
		if ln.prefix != "" {
			drawText(out, bold, x, baseline, style.TextColor, ln.prefix)
			x += textlayout.MeasureString(bold, ln.prefix)
		}
		drawText(out, regular, x, baseline, style.TextColor, ln.text)
	}
	return out
}

// renderNarration overlays a translucent white band at the bottom of the
// panel without changing its dimensions.
func (r *StripRenderer) renderNarration(img image.Image, uts []domain.Utterance) *image.RGBA {
	out := compose.Clone(img)
	p := r.provider()
	regular, met := p.Resolve(textlayout.FontSpec{SizePt: style.StripFontSize})

	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	maxW := w - 2*style.NarrationMarginX

	parts := make([]string, 0, len(uts))
	for _, u := range uts {
		parts = append(parts, u.Text)
	}
	lines := textlayout.Wrap(regular, strings.Join(parts, " "), maxW)
	if len(lines) == 0 {
		return out
	}

	stripH := len(lines)*style.NarrationLineHeight + 2*style.NarrationMarginY
	if stripH > h {
		stripH = h
	}
	band := image.Rect(0, h-stripH, w, h)
	overlayRect(out, band, color.NRGBA{R: 255, G: 255, B: 255, A: style.NarrationAlpha})

	ascent := int(met.Ascent)
	for i, ln := range lines {
		baseline := band.Min.Y + style.NarrationMarginY + i*style.NarrationLineHeight + ascent
		if baseline > h {
			break
		}
		drawText(out, regular, style.NarrationMarginX, baseline, style.TextColor, ln)
	}
	return out
}
