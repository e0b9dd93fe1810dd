/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"strings"
	"testing"
)

func TestWrap_BreaksAtWidth(t *testing.T) {
	face, _ := BasicProvider{}.Resolve(FontSpec{})
	// Face7x13 advances 7px per glyph; 50px fits at most 7 glyphs per line.
	lines := Wrap(face, "Hello world from Go", 50)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d: %v", len(lines), lines)
	}
	for _, ln := range lines {
		if w := MeasureString(face, ln); w > 50 && strings.Contains(ln, " ") {
			t.Errorf("line %q measures %dpx, exceeds 50", ln, w)
		}
	}
}

func TestWrap_LongWordKeptWhole(t *testing.T) {
	face, _ := BasicProvider{}.Resolve(FontSpec{})
	lines := Wrap(face, "hi incomprehensibilities hi", 50)
	found := false
	for _, ln := range lines {
		if ln == "incomprehensibilities" {
			found = true
		}
	}
	if !found {
		t.Fatalf("oversized word should land alone on its own line: %v", lines)
	}
}

func TestWrap_Newlines(t *testing.T) {
	face, _ := BasicProvider{}.Resolve(FontSpec{})
	lines := Wrap(face, "one\ntwo", 1000)
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Fatalf("explicit newlines should force breaks: %v", lines)
	}
}

func TestWrap_Empty(t *testing.T) {
	face, _ := BasicProvider{}.Resolve(FontSpec{})
	if lines := Wrap(face, "   ", 100); lines != nil {
		t.Fatalf("blank input should yield no lines, got %v", lines)
	}
}

func TestMeasure_Deterministic(t *testing.T) {
	face, _ := BasicProvider{}.Resolve(FontSpec{})
	if MeasureString(face, "ABC") != MeasureString(face, "A")+MeasureString(face, "BC") {
		t.Fatalf("fixed-advance face should measure additively")
	}
}

func TestBlockSize(t *testing.T) {
	face, met := BasicProvider{}.Resolve(FontSpec{})
	w, h := BlockSize(face, met, []string{"ab", "abcd"})
	if w != MeasureString(face, "abcd") {
		t.Fatalf("block width = %d, want widest line", w)
	}
	if h != 2*int(met.LineHeight()) {
		t.Fatalf("block height = %d, want two line heights", h)
	}
}

func TestOTProvider_BundledFonts(t *testing.T) {
	p := OTProvider{Lib: NewFontLibrary()}
	face, met := p.Resolve(FontSpec{SizePt: 18})
	if face == nil {
		t.Fatal("expected a face from the bundled fonts")
	}
	if met.Ascent <= 0 || met.Descent <= 0 {
		t.Fatalf("bad metrics: %+v", met)
	}
	bold, _ := p.Resolve(FontSpec{SizePt: 18, Weight: 700})
	if bold == nil {
		t.Fatal("expected a bold face")
	}
}

func TestOTProvider_FallsBackWithoutLibrary(t *testing.T) {
	p := OTProvider{}
	face, _ := p.Resolve(FontSpec{SizePt: 18})
	if face == nil {
		t.Fatal("nil library must still resolve via fallback")
	}
}

func TestFontLibrary_LoadTTFMissingFile(t *testing.T) {
	lib := NewFontLibrary()
	if err := lib.LoadTTF(400, false, "/nonexistent/font.ttf"); err == nil {
		t.Fatal("expected error for missing font file")
	}
}
