/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package anchor

import (
	"errors"
	"image"
	"testing"

	"comicforge/internal/domain"
	"comicforge/internal/style"
)

func TestFixedPositions(t *testing.T) {
	b := image.Rect(0, 0, 800, 600)

	one := FixedPositions(b, 1)
	if len(one) != 1 || one[0].X != 400 || one[0].Y != 150 {
		t.Fatalf("single speaker anchor = %v, want top-center", one)
	}

	two := FixedPositions(b, 2)
	if len(two) != 2 {
		t.Fatalf("want 2 anchors, got %v", two)
	}
	if two[0].X != 400-style.FixedAnchorSpread || two[1].X != 400+style.FixedAnchorSpread {
		t.Fatalf("two speakers should flank center: %v", two)
	}
	if two[0].X >= two[1].X {
		t.Fatal("anchors must keep left-to-right speaking order")
	}

	four := FixedPositions(b, 4)
	if len(four) != 4 {
		t.Fatalf("want 4 anchors, got %v", four)
	}
	for i := 1; i < len(four); i++ {
		if four[i].X <= four[i-1].X {
			t.Fatalf("anchors not increasing: %v", four)
		}
	}
}

func TestFixedPositions_ZeroCount(t *testing.T) {
	if got := FixedPositions(image.Rect(0, 0, 10, 10), 0); got != nil {
		t.Fatalf("count 0 should yield nil, got %v", got)
	}
}

type failingDetector struct{}

func (failingDetector) Detect(image.Image, int) ([]domain.SpeakerAnchor, error) {
	return nil, errors.New("boom")
}

type partialDetector struct{}

func (partialDetector) Detect(img image.Image, count int) ([]domain.SpeakerAnchor, error) {
	return []domain.SpeakerAnchor{{X: 7, Y: 7}}, nil
}

func TestResolve_FallsBackOnError(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	got := Resolve(failingDetector{}, img, 2)
	want := FixedPositions(img.Bounds(), 2)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("error should fall back to fixed positions: got %v want %v", got, want)
	}
}

func TestResolve_PadsShortDetections(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	got := Resolve(partialDetector{}, img, 3)
	if len(got) != 3 {
		t.Fatalf("want 3 anchors, got %v", got)
	}
	if got[0] != (domain.SpeakerAnchor{X: 7, Y: 7}) {
		t.Fatalf("detected anchor should be kept first: %v", got)
	}
}

func TestResolve_NilDetector(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	if got := Resolve(nil, img, 1); len(got) != 1 {
		t.Fatalf("nil detector must still anchor: %v", got)
	}
}

func TestFaceDetector_StubUnavailable(t *testing.T) {
	if _, err := NewFaceDetector("nonexistent.xml"); err == nil {
		t.Skip("built with gocv; skipping stub check")
	}
}
