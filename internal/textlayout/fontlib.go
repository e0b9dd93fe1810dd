/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores loaded OpenType fonts keyed by weight/italic. A fresh
// library carries the bundled Go Regular and Go Bold fonts so rendering
// works without any font files on disk.

type FontLibrary struct {
	mu    sync.Mutex
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	weight int
	italic bool
}

var (
	builtinOnce    sync.Once
	builtinRegular *opentype.Font
	builtinBold    *opentype.Font
)

func builtins() (*opentype.Font, *opentype.Font) {
	builtinOnce.Do(func() {
		// The bundled gofont data is known good; a parse failure here
		// leaves the library empty and Resolve falls through to the
		// basic face.
		builtinRegular, _ = opentype.Parse(goregular.TTF)
		builtinBold, _ = opentype.Parse(gobold.TTF)
	})
	return builtinRegular, builtinBold
}

func NewFontLibrary() *FontLibrary {
	fl := &FontLibrary{fonts: make(map[fontKey]*opentype.Font)}
	reg, bold := builtins()
	if reg != nil {
		fl.fonts[fontKey{weight: 400}] = reg
	}
	if bold != nil {
		fl.fonts[fontKey{weight: 700}] = bold
	}
	return fl
}

// LoadTTF loads a font file into the library, replacing the bundled font
// for the given weight/italic slot.
func (fl *FontLibrary) LoadTTF(weight int, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", path, err)
	}
	fl.mu.Lock()
	fl.fonts[fontKey{weight: weight, italic: italic}] = f
	fl.mu.Unlock()
	return nil
}

func (fl *FontLibrary) find(spec FontSpec) *opentype.Font {
	if fl == nil {
		return nil
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		return nil
	}
	weight := spec.Weight
	if weight == 0 {
		weight = 400
	}
	key := fontKey{weight: weight, italic: spec.Italic}
	if f, ok := fl.fonts[key]; ok {
		return f
	}
	// Bucket to the nearest loaded cut: bold-ish requests take the
	// heaviest font, everything else the lightest.
	if weight >= 600 {
		if f, ok := fl.fonts[fontKey{weight: 700}]; ok {
			return f
		}
	}
	if f, ok := fl.fonts[fontKey{weight: 400}]; ok {
		return f
	}
	for _, f := range fl.fonts {
		return f
	}
	return nil
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another
// Provider when no font matches or face construction fails.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64 // default 72 if zero
	Fallback Provider
}

func (p OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePt <= 0 {
		spec.SizePt = 12
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}

	if f := p.Lib.find(spec); f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(spec.SizePt), DPI: dpi, Hinting: font.HintingFull})
		if err == nil {
			m := face.Metrics()
			return face, Metrics{
				Ascent:  float32(m.Ascent.Round()),
				Descent: float32(m.Descent.Round()),
				LineGap: float32(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
			}
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}

// Default builds the standard lettering provider: bundled Go fonts, plus an
// optional TTF override loaded for both regular and bold slots.
func Default(fontPath string) (Provider, error) {
	lib := NewFontLibrary()
	if fontPath != "" {
		if err := lib.LoadTTF(400, false, fontPath); err != nil {
			return OTProvider{Lib: lib}, err
		}
		// Best effort: use the same file for bold requests so custom
		// lettering stays consistent even without a bold cut.
		_ = lib.LoadTTF(700, false, fontPath)
	}
	return OTProvider{Lib: lib}, nil
}
