/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package assemble

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"comicforge/internal/compose"
	"comicforge/internal/domain"
	applog "comicforge/internal/log"
	"comicforge/internal/style"
)

// WritePDF emits one US Letter PDF page per layout. Each slot image is
// placed individually, its rectangle scaled from page-canvas pixels into
// the PDF point grid inside the fixed margins. gofpdf's origin is already
// top-left, so no vertical flip is needed beyond the uniform scale.
func (a *Assembler) WritePDF(path string, panels []domain.Panel, layouts []domain.PageLayout) error {
	if len(panels) == 0 || len(layouts) == 0 {
		return ErrNoPanels
	}

	byIndex := make(map[int]domain.Panel, len(panels))
	for _, p := range panels {
		byIndex[p.Index] = p
	}

	contentW := style.PDFPageWidthPt - 2*style.PDFMarginPt
	contentH := style.PDFPageHeightPt - 2*style.PDFMarginPt
	scale := contentW / float64(style.PageWidth)
	if s := contentH / float64(style.PageHeight); s < scale {
		scale = s
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: style.PDFPageWidthPt, Ht: style.PDFPageHeightPt},
	})
	pdf.SetTitle("comicforge comic", false)
	pdf.SetAuthor("comicforge", false)

	for pageNo, pl := range layouts {
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: style.PDFPageWidthPt, Ht: style.PDFPageHeightPt})
		for _, slot := range pl.Slots {
			p, ok := byIndex[slot.PanelIndex]
			if !ok || p.Image == nil {
				applog.WithComponent("assemble").Warn("panel missing for slot, leaving blank", "panel", slot.PanelIndex)
				continue
			}
			lettered := a.Dialogue.Render(p.Image, p.Text())
			fitted := compose.FitToSlot(lettered, slot.Width, slot.Height)

			var buf bytes.Buffer
			if err := png.Encode(&buf, fitted); err != nil {
				return fmt.Errorf("assemble: encode slot %d: %w", slot.PanelIndex, err)
			}
			name := fmt.Sprintf("page%d-panel%d", pageNo, slot.PanelIndex)
			pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)

			x := style.PDFMarginPt + float64(slot.X)*scale
			y := style.PDFMarginPt + float64(slot.Y)*scale
			w := float64(slot.Width) * scale
			h := float64(slot.Height) * scale
			pdf.ImageOptions(name, x, y, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		}
	}
	if pdf.Err() {
		return fmt.Errorf("assemble: build pdf: %s", pdf.Error())
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("assemble: write pdf: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		os.Remove(path)
		return fmt.Errorf("assemble: write pdf: %w", err)
	}
	applog.WithComponent("assemble").Info("pdf written", "path", path, "pages", len(layouts))
	return nil
}
