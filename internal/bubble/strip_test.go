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
	"testing"

	"comicforge/internal/style"
	"comicforge/internal/textlayout"
)

func testPanel(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{50, 80, 120, 255})
		}
	}
	return img
}

func TestStripRenderer_EmptyIsNoOp(t *testing.T) {
	r := NewStripRenderer(textlayout.BasicProvider{})
	src := testPanel(200, 150)
	for _, raw := range []string{"", "   "} {
		got := r.Render(src, raw)
		if got.Bounds().Dx() != 200 || got.Bounds().Dy() != 150 {
			t.Fatalf("raw=%q: dimensions changed to %v", raw, got.Bounds())
		}
		for i := range src.Pix {
			if got.Pix[i] != src.Pix[i] {
				t.Fatalf("raw=%q: pixel content changed", raw)
			}
		}
	}
}

func TestStripRenderer_DialogueGrowsCanvasDownward(t *testing.T) {
	r := NewStripRenderer(textlayout.BasicProvider{})
	src := testPanel(400, 300)
	got := r.Render(src, "Hero: Onward!")
	if got.Bounds().Dx() != 400 {
		t.Fatalf("width changed: %v", got.Bounds())
	}
	wantH := 300 + 1*style.StripLineHeight + 2*style.StripPaddingY
	if got.Bounds().Dy() != wantH {
		t.Fatalf("height = %d, want %d", got.Bounds().Dy(), wantH)
	}
	// Original panel must be untouched at the top.
	r0, g0, b0, _ := got.At(10, 10).RGBA()
	if uint8(r0>>8) != 50 || uint8(g0>>8) != 80 || uint8(b0>>8) != 120 {
		t.Fatal("panel content altered above the strip")
	}
	// Strip region carries the light-gray fill.
	sr, _, _, _ := got.At(200, 300+style.StripPaddingY/2).RGBA()
	if uint8(sr>>8) != style.StripBackground.R {
		t.Fatalf("strip background missing, got %d", uint8(sr>>8))
	}
}

func TestStripRenderer_MultipleUtterancesStack(t *testing.T) {
	r := NewStripRenderer(textlayout.BasicProvider{})
	src := testPanel(600, 200)
	one := r.Render(src, "A: hi")
	two := r.Render(src, "A: hi | B: ho")
	if two.Bounds().Dy() <= one.Bounds().Dy() {
		t.Fatalf("two utterances (%d) should need more strip than one (%d)",
			two.Bounds().Dy(), one.Bounds().Dy())
	}
}

func TestStripRenderer_NarrationKeepsDimensions(t *testing.T) {
	r := NewStripRenderer(textlayout.BasicProvider{})
	src := testPanel(300, 200)
	got := r.Render(src, "The storm rolled in.")
	if got.Bounds().Dx() != 300 || got.Bounds().Dy() != 200 {
		t.Fatalf("narration must not resize the panel: %v", got.Bounds())
	}
	// Bottom band must be lightened by the translucent overlay.
	r1, _, _, _ := got.At(150, 195).RGBA()
	if uint8(r1>>8) <= 50 {
		t.Fatal("expected translucent white overlay at the bottom")
	}
	// Top of panel untouched.
	r2, _, _, _ := got.At(150, 5).RGBA()
	if uint8(r2>>8) != 50 {
		t.Fatal("overlay leaked above the narration band")
	}
}

func TestStripRenderer_SourceNotMutated(t *testing.T) {
	r := NewStripRenderer(textlayout.BasicProvider{})
	src := testPanel(100, 80)
	before := append([]uint8(nil), src.Pix...)
	_ = r.Render(src, "X: words | and narration")
	for i := range before {
		if src.Pix[i] != before[i] {
			t.Fatal("render mutated the source panel")
		}
	}
}

func TestForMode(t *testing.T) {
	if _, ok := ForMode(ModeStrip, nil, nil).(*StripRenderer); !ok {
		t.Fatal("strip mode should build a StripRenderer")
	}
	if _, ok := ForMode(ModeBubble, nil, nil).(*BubbleRenderer); !ok {
		t.Fatal("bubble mode should build a BubbleRenderer")
	}
	if _, ok := ForMode("nonsense", nil, nil).(*StripRenderer); !ok {
		t.Fatal("unknown modes fall back to the strip renderer")
	}
}

func TestStripRenderer_MixedNarrationAndDialogueUsesStrip(t *testing.T) {
	r := NewStripRenderer(textlayout.BasicProvider{})
	src := testPanel(400, 300)
	got := r.Render(src, "A quiet dawn. | Hero: We made it.")
	// The labeled line forces strip mode, so the canvas grows below the
	// panel instead of overlaying a narration band.
	wantH := 300 + 2*style.StripLineHeight + 2*style.StripPaddingY
	if got.Bounds().Dy() != wantH {
		t.Fatalf("height = %d, want %d (strip mode)", got.Bounds().Dy(), wantH)
	}
	sr, _, _, _ := got.At(200, 300+style.StripPaddingY/2).RGBA()
	if uint8(sr>>8) != style.StripBackground.R {
		t.Fatal("mixed dialogue should render into the below-panel strip")
	}
}
