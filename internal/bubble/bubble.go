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

	"comicforge/internal/anchor"
	"comicforge/internal/compose"
	"comicforge/internal/domain"
	"comicforge/internal/style"
	"comicforge/internal/textlayout"
	"comicforge/internal/vector"
)

// BubbleRenderer letters utterances as rounded speech bubbles with tails
// pointing at per-speaker anchors. Anchors come from the configured
// detector, falling back to fixed positions when detection is unavailable.
// Unlike the strip renderer it never grows the canvas.
type BubbleRenderer struct {
	Fonts   textlayout.Provider
	Anchors anchor.Detector
}

func NewBubbleRenderer(fonts textlayout.Provider, det anchor.Detector) *BubbleRenderer {
	return &BubbleRenderer{Fonts: fonts, Anchors: det}
}

func (r *BubbleRenderer) Render(img image.Image, raw string) *image.RGBA {
	uts := ParseUtterances(raw)
	out := compose.Clone(img)
	if len(uts) == 0 {
		return out
	}
	p := r.Fonts
	if p == nil {
		p = textlayout.BasicProvider{}
	}
	anchors := anchor.Resolve(r.Anchors, img, len(uts))
	for i, u := range uts {
		r.drawBubble(out, p, u, anchors[i])
	}
	return out
}

// drawBubble sizes a bubble to its wrapped text, positions it relative to
// the anchor, clamps it inside the image and draws body, tail and text in
// that order so the tail appears to emerge from the bubble.
func (r *BubbleRenderer) drawBubble(dst *image.RGBA, p textlayout.Provider, u domain.Utterance, at domain.SpeakerAnchor) {
	regular, met := p.Resolve(textlayout.FontSpec{SizePt: style.StripFontSize})
	bold, boldMet := p.Resolve(textlayout.FontSpec{SizePt: style.StripFontSize, Weight: 700})

	maxTextW := style.BubbleMaxWidth - 2*style.BubblePadding
	lines := textlayout.Wrap(regular, u.Text, maxTextW)
	if len(lines) == 0 && u.Speaker == "" {
		return
	}

	textW, textH := textlayout.BlockSize(regular, met, lines)
	if u.Speaker != "" {
		if w := textlayout.MeasureString(bold, u.Speaker); w > textW {
			textW = w
		}
		textH += int(boldMet.LineHeight())
	}

	bw := textW + 2*style.BubblePadding
	bh := textH + 2*style.BubblePadding

	bounds := dst.Bounds()
	// Bubble bottom sits a fixed lift above the anchor; anchors in the
	// lower half get the larger lift so bubbles stay over the action.
	lift := style.BubbleLift
	if at.Y > bounds.Min.Y+bounds.Dy()/2 {
		lift = style.BubbleLiftLow
	}
	rect := vector.R(float32(at.X-bw/2), float32(at.Y-lift-bh), float32(bw), float32(bh))
	rect = rect.ClampTo(vector.R(
		float32(bounds.Min.X), float32(bounds.Min.Y),
		float32(bounds.Dx()), float32(bounds.Dy())))

	body := image.Rect(int(rect.X), int(rect.Y), int(rect.X)+bw, int(rect.Y)+bh)
	drawRoundedBubble(dst, body, style.BubbleRadius, 2, style.BubbleFill, style.BubbleStroke)

	tail := vector.ComputeBubbleTail(rect, vector.Pt{X: float32(at.X), Y: float32(at.Y)},
		vector.TailOptions{BaseWidth: style.TailBaseWidth, Length: style.TailLength})
	fillTriangle(dst, tail.BaseLeft, tail.BaseRight, tail.Tip, style.BubbleStroke)
	// Shrink the base chord slightly so the fill does not cover the
	// bubble border where the tail attaches.
	innerL := vector.Pt{X: tail.BaseLeft.X + (tail.BaseCenter.X-tail.BaseLeft.X)*0.2, Y: tail.BaseLeft.Y + (tail.BaseCenter.Y-tail.BaseLeft.Y)*0.2}
	innerR := vector.Pt{X: tail.BaseRight.X + (tail.BaseCenter.X-tail.BaseRight.X)*0.2, Y: tail.BaseRight.Y + (tail.BaseCenter.Y-tail.BaseRight.Y)*0.2}
	fillTriangle(dst, innerL, innerR, tail.Tip, style.BubbleFill)

	x := body.Min.X + style.BubblePadding
	y := body.Min.Y + style.BubblePadding
	if u.Speaker != "" {
		drawText(dst, bold, x, y+int(boldMet.Ascent), style.TextColor, u.Speaker)
		y += int(boldMet.LineHeight())
	}
	for _, ln := range lines {
		drawText(dst, regular, x, y+int(met.Ascent), style.TextColor, ln)
		y += int(met.LineHeight())
	}
}
