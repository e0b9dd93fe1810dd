/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package assemble flattens planned layouts and lettered panels into the
// final comic artifacts: page rasters, a stacked preview image and a
// multi-page PDF.
package assemble

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"comicforge/internal/bubble"
	"comicforge/internal/compose"
	"comicforge/internal/domain"
	applog "comicforge/internal/log"
	"comicforge/internal/style"
)

// ErrNoPanels is returned when assembly is attempted with no panel images.
// This is the one fatal precondition of the whole pipeline.
var ErrNoPanels = errors.New("assemble: no panels supplied")

// Assembler composes pages. The dialogue renderer runs on every panel
// before slot fitting, so lettering survives the downscale into the slot.
type Assembler struct {
	Dialogue bubble.Renderer
}

func New(r bubble.Renderer) *Assembler {
	if r == nil {
		r = bubble.NewStripRenderer(nil)
	}
	return &Assembler{Dialogue: r}
}

// RenderPage composes one page canvas from its layout. Panels are looked
// up by the slot's panel index; a missing panel leaves a blank slot rather
// than failing the page.
func (a *Assembler) RenderPage(panels []domain.Panel, pl domain.PageLayout) *image.RGBA {
	page := image.NewRGBA(image.Rect(0, 0, style.PageWidth, style.PageHeight))
	fill(page, style.PageBackground)

	byIndex := make(map[int]domain.Panel, len(panels))
	for _, p := range panels {
		byIndex[p.Index] = p
	}
	log := applog.WithComponent("assemble")
	for _, slot := range pl.Slots {
		p, ok := byIndex[slot.PanelIndex]
		if !ok || p.Image == nil {
			log.Warn("panel missing for slot, leaving blank", "panel", slot.PanelIndex)
			compose.Paste(page, compose.FitToSlot(nil, slot.Width, slot.Height), slot.X, slot.Y)
			continue
		}
		lettered := a.Dialogue.Render(p.Image, p.Text())
		fitted := compose.FitToSlot(lettered, slot.Width, slot.Height)
		compose.Paste(page, fitted, slot.X, slot.Y)
	}
	return page
}

// RenderPages composes every page in layout order.
func (a *Assembler) RenderPages(panels []domain.Panel, layouts []domain.PageLayout) ([]*image.RGBA, error) {
	if len(panels) == 0 {
		return nil, ErrNoPanels
	}
	if len(layouts) == 0 {
		return nil, ErrNoPanels
	}
	pages := make([]*image.RGBA, 0, len(layouts))
	for _, pl := range layouts {
		pages = append(pages, a.RenderPage(panels, pl))
	}
	return pages, nil
}

// StackPages joins page rasters vertically with a fixed gap. Single pages
// come back unchanged. Intended for quick previews, not print output.
func StackPages(pages []*image.RGBA) *image.RGBA {
	if len(pages) == 0 {
		return nil
	}
	if len(pages) == 1 {
		return pages[0]
	}
	totalH := style.PageStackGap * (len(pages) - 1)
	for _, p := range pages {
		totalH += p.Bounds().Dy()
	}
	out := image.NewRGBA(image.Rect(0, 0, style.PageWidth, totalH))
	fill(out, style.PageBackground)
	y := 0
	for _, p := range pages {
		compose.Paste(out, p, 0, y)
		y += p.Bounds().Dy() + style.PageStackGap
	}
	return out
}

// WriteRaster letters, composes and saves the comic as a single PNG:
// one page's canvas exactly, or the stacked preview for multi-page runs.
func (a *Assembler) WriteRaster(path string, panels []domain.Panel, layouts []domain.PageLayout) error {
	pages, err := a.RenderPages(panels, layouts)
	if err != nil {
		return err
	}
	img := StackPages(pages)
	if err := writePNG(path, img); err != nil {
		return fmt.Errorf("assemble: write raster: %w", err)
	}
	applog.WithComponent("assemble").Info("raster written", "path", path, "pages", len(pages))
	return nil
}

func fill(img *image.RGBA, c color.Color) {
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
