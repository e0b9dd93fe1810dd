/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package bubble

// Raster primitives for the dialogue renderers. Everything draws directly
// into an *image.RGBA; anti-aliasing is deliberately absent to keep output
// byte-for-byte deterministic.

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"comicforge/internal/vector"
)

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func overlayRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// fillRoundedRect fills r with quarter-circle corners of the given radius.
func fillRoundedRect(dst *image.RGBA, r image.Rectangle, radius int, c color.Color) {
	if radius <= 0 {
		fillRect(dst, r, c)
		return
	}
	if m := r.Dx() / 2; radius > m {
		radius = m
	}
	if m := r.Dy() / 2; radius > m {
		radius = m
	}
	// Three rectangles cover everything but the corner squares.
	fillRect(dst, image.Rect(r.Min.X+radius, r.Min.Y, r.Max.X-radius, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y+radius, r.Min.X+radius, r.Max.Y-radius), c)
	fillRect(dst, image.Rect(r.Max.X-radius, r.Min.Y+radius, r.Max.X, r.Max.Y-radius), c)

	centers := []image.Point{
		{r.Min.X + radius, r.Min.Y + radius},
		{r.Max.X - radius - 1, r.Min.Y + radius},
		{r.Min.X + radius, r.Max.Y - radius - 1},
		{r.Max.X - radius - 1, r.Max.Y - radius - 1},
	}
	rr := radius * radius
	for _, c0 := range centers {
		for dy := -radius; dy <= 0; dy++ {
			for dx := -radius; dx <= 0; dx++ {
				if dx*dx+dy*dy > rr {
					continue
				}
				// Mirror the quarter arc into the proper quadrant.
				sx, sy := dx, dy
				if c0.X > r.Min.X+radius {
					sx = -dx
				}
				if c0.Y > r.Min.Y+radius {
					sy = -dy
				}
				p := image.Pt(c0.X+sx, c0.Y+sy)
				if p.In(dst.Bounds()) {
					dst.Set(p.X, p.Y, c)
				}
			}
		}
	}
}

// drawRoundedBubble paints a bordered rounded rectangle: the stroke color
// underneath, then the fill inset by the border width.
func drawRoundedBubble(dst *image.RGBA, r image.Rectangle, radius, border int, fill, stroke color.Color) {
	fillRoundedRect(dst, r, radius, stroke)
	inner := image.Rect(r.Min.X+border, r.Min.Y+border, r.Max.X-border, r.Max.Y-border)
	ir := radius - border
	if ir < 0 {
		ir = 0
	}
	fillRoundedRect(dst, inner, ir, fill)
}

// fillTriangle rasterizes the triangle p1-p2-p3 with an edge-function test
// over its bounding box.
func fillTriangle(dst *image.RGBA, p1, p2, p3 vector.Pt, c color.Color) {
	minX := int(min3(p1.X, p2.X, p3.X))
	maxX := int(max3(p1.X, p2.X, p3.X)) + 1
	minY := int(min3(p1.Y, p2.Y, p3.Y))
	maxY := int(max3(p1.Y, p2.Y, p3.Y)) + 1

	edge := func(a, b vector.Pt, x, y float32) float32 {
		return (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			fx, fy := float32(x)+0.5, float32(y)+0.5
			d1 := edge(p1, p2, fx, fy)
			d2 := edge(p2, p3, fx, fy)
			d3 := edge(p3, p1, fx, fy)
			neg := d1 < 0 || d2 < 0 || d3 < 0
			pos := d1 > 0 || d2 > 0 || d3 > 0
			if neg && pos {
				continue
			}
			if image.Pt(x, y).In(dst.Bounds()) {
				dst.Set(x, y, c)
			}
		}
	}
}

// drawText renders s with its baseline at (x, y).
func drawText(dst *image.RGBA, face font.Face, x, y int, c color.Color, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
