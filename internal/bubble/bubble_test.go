/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package bubble

import (
	"errors"
	"image"
	"testing"

	"comicforge/internal/domain"
	"comicforge/internal/textlayout"
)

type explodingDetector struct{}

func (explodingDetector) Detect(image.Image, int) ([]domain.SpeakerAnchor, error) {
	return nil, errors.New("cascade not loaded")
}

func TestBubbleRenderer_KeepsDimensions(t *testing.T) {
	r := NewBubbleRenderer(textlayout.BasicProvider{}, nil)
	src := testPanel(800, 600)
	got := r.Render(src, "Hero: We ride at dawn. | Sidekick: Again?")
	if got.Bounds() != src.Bounds() {
		t.Fatalf("bubble renderer must not resize: %v vs %v", got.Bounds(), src.Bounds())
	}
}

func TestBubbleRenderer_EmptyIsNoOp(t *testing.T) {
	r := NewBubbleRenderer(textlayout.BasicProvider{}, nil)
	src := testPanel(120, 90)
	got := r.Render(src, "")
	if got.Bounds() != src.Bounds() {
		t.Fatalf("dimensions changed: %v", got.Bounds())
	}
	for i := range src.Pix {
		if got.Pix[i] != src.Pix[i] {
			t.Fatal("no-op render altered pixels")
		}
	}
}

func TestBubbleRenderer_DrawsSomething(t *testing.T) {
	r := NewBubbleRenderer(textlayout.BasicProvider{}, nil)
	src := testPanel(800, 600)
	got := r.Render(src, "Hero: Hello there")
	changed := false
	for i := range src.Pix {
		if got.Pix[i] != src.Pix[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatal("expected a bubble to be drawn")
	}
}

func TestBubbleRenderer_DetectorFailureDegrades(t *testing.T) {
	fixed := NewBubbleRenderer(textlayout.BasicProvider{}, nil)
	failing := NewBubbleRenderer(textlayout.BasicProvider{}, explodingDetector{})
	src := testPanel(800, 600)
	a := fixed.Render(src, "A: one | B: two")
	b := failing.Render(src, "A: one | B: two")
	if a.Bounds() != b.Bounds() {
		t.Fatal("bounds diverged")
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatal("failed detection must render identically to fixed anchors")
		}
	}
}

func TestBubbleRenderer_StaysInsideSmallImage(t *testing.T) {
	// A panel far smaller than the max bubble width: the render must not
	// panic and must keep the canvas size.
	r := NewBubbleRenderer(textlayout.BasicProvider{}, nil)
	src := testPanel(120, 100)
	got := r.Render(src, "Hero: a fairly long line of dialogue that wraps a lot")
	if got.Bounds() != src.Bounds() {
		t.Fatalf("dimensions changed: %v", got.Bounds())
	}
}
