/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package layout plans page geometry for a comic: it partitions panels
// across pages with bounded randomized variation and computes an exact
// pixel rectangle for every panel slot using named grid templates.
//
// The planner is the single source of layout truth: the page assembler and
// the video sequencer both consume its output unchanged, which is what
// keeps the printed comic and the narrated video visually identical.
package layout

import (
	"math"
	"math/rand"
	"time"

	"comicforge/internal/domain"
	"comicforge/internal/style"
)

// Plan partitions totalPanels across numPages pages and computes slot
// rectangles for each page. avgPerPage is advisory: when it disagrees with
// the actual panel count the effective average is recomputed from
// totalPanels/numPages, so the real count is always authoritative.
//
// rng drives the per-page panel-count variation; pass a seeded source for
// reproducible layouts. A nil rng falls back to a time-seeded one.
//
// Plan never fails for totalPanels >= 1. For totalPanels == 0 it returns
// nil and the caller must treat the input as empty rather than proceed.
func Plan(totalPanels, numPages int, avgPerPage float64, rng *rand.Rand) []domain.PageLayout {
	if totalPanels <= 0 {
		return nil
	}
	counts := Distribute(totalPanels, numPages, avgPerPage, rng)
	layouts := make([]domain.PageLayout, 0, len(counts))
	next := 0
	for _, n := range counts {
		layouts = append(layouts, domain.PageLayout{Slots: PageTemplate(n, next)})
		next += n
	}
	return layouts
}

// Distribute decides how many panels each page receives. Every page except
// the last gets base+variation panels, where base is the floor of the
// effective average and variation is drawn uniformly from [-2, +2]; the
// result is clamped so later pages are never starved. The last page takes
// whatever remains. The returned counts are all >= 1 and sum to
// totalPanels exactly.
func Distribute(totalPanels, numPages int, avgPerPage float64, rng *rand.Rand) []int {
	if totalPanels <= 0 {
		return nil
	}
	if numPages < 1 {
		numPages = 1
	}
	// More pages than panels cannot satisfy one-panel-per-page; collapse
	// to one page per panel.
	if numPages > totalPanels {
		numPages = totalPanels
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	eff := avgPerPage
	if int(math.Round(float64(numPages)*avgPerPage)) != totalPanels || eff <= 0 {
		eff = float64(totalPanels) / float64(numPages)
	}
	base := int(math.Floor(eff))

	counts := make([]int, 0, numPages)
	remaining := totalPanels
	for page := 0; page < numPages-1; page++ {
		n := base + rng.Intn(5) - 2
		// Pages after this one each still need at least one panel.
		pagesLeft := numPages - page - 1
		if hi := remaining - pagesLeft; n > hi {
			n = hi
		}
		if n < 1 {
			n = 1
		}
		counts = append(counts, n)
		remaining -= n
	}
	counts = append(counts, remaining)
	return counts
}

// PageTemplate computes the slot rectangles for a page holding n panels,
// numbering them from firstIndex onward in reading order. The template is
// chosen by a fixed rule on n, so identical panel counts always produce
// identical geometry.
func PageTemplate(n, firstIndex int) []domain.PanelSlot {
	if n <= 0 {
		return nil
	}
	switch {
	case n <= 3:
		return gridSlots(n, 1, n, firstIndex)
	case n == 4:
		return gridSlots(n, 2, 2, firstIndex)
	case n == 5:
		return fiveSlots(firstIndex)
	case n == 6:
		return gridSlots(n, 3, 2, firstIndex)
	case n == 9:
		return gridSlots(n, 3, 3, firstIndex)
	default:
		cols := 3
		rows := (n + cols - 1) / cols
		if rows > 3 {
			// Capping rows would drop slots; widen the grid instead.
			rows = 3
			cols = (n + rows - 1) / rows
		}
		return gridSlots(n, cols, rows, firstIndex)
	}
}

// contentArea is the page rectangle minus the fixed outer padding.
func contentArea() (x, y, w, h int) {
	x = style.PagePadding
	y = style.PagePadding
	w = style.PageWidth - 2*style.PagePadding
	h = style.PageHeight - 2*style.PagePadding
	return
}

// gridSlots lays n panels into a cols x rows grid of equal cells, filling
// row-major. Trailing cells of an incomplete last row stay empty.
func gridSlots(n, cols, rows, firstIndex int) []domain.PanelSlot {
	cx, cy, cw, ch := contentArea()
	cellW := (cw - (cols-1)*style.PageGutter) / cols
	cellH := (ch - (rows-1)*style.PageGutter) / rows

	slots := make([]domain.PanelSlot, 0, n)
	for i := 0; i < n; i++ {
		col := i % cols
		row := i / cols
		slots = append(slots, domain.PanelSlot{
			PanelIndex: firstIndex + i,
			X:          cx + col*(cellW+style.PageGutter),
			Y:          cy + row*(cellH+style.PageGutter),
			Width:      cellW,
			Height:     cellH,
		})
	}
	return slots
}

// fiveSlots is the 3-over-2 template: three smaller panels across the top
// third, two larger panels across the bottom two thirds.
func fiveSlots(firstIndex int) []domain.PanelSlot {
	cx, cy, cw, ch := contentArea()
	topH := (ch - style.PageGutter) / 3
	botH := ch - style.PageGutter - topH
	botY := cy + topH + style.PageGutter

	topW := (cw - 2*style.PageGutter) / 3
	botW := (cw - style.PageGutter) / 2

	slots := make([]domain.PanelSlot, 0, 5)
	for i := 0; i < 3; i++ {
		slots = append(slots, domain.PanelSlot{
			PanelIndex: firstIndex + i,
			X:          cx + i*(topW+style.PageGutter),
			Y:          cy,
			Width:      topW,
			Height:     topH,
		})
	}
	for i := 0; i < 2; i++ {
		slots = append(slots, domain.PanelSlot{
			PanelIndex: firstIndex + 3 + i,
			X:          cx + i*(botW+style.PageGutter),
			Y:          botY,
			Width:      botW,
			Height:     botH,
		})
	}
	return slots
}
