/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package compose fits panel artwork into layout slots.
package compose

import (
	"image"
	stddraw "image/draw"

	xdraw "golang.org/x/image/draw"

	"comicforge/internal/style"
)

// FitToSlot scales src to fit entirely within w x h preserving aspect ratio
// and centers it on a white canvas of exactly those dimensions. At least one
// axis touches the slot edges; the other may be letterboxed. The source
// image is never modified.
func FitToSlot(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	stddraw.Draw(dst, dst.Bounds(), image.NewUniform(style.PageBackground), image.Point{}, stddraw.Src)
	if src == nil || w <= 0 || h <= 0 {
		return dst
	}

	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw <= 0 || sh <= 0 {
		return dst
	}

	// Thumbnail semantics: clamp the relatively larger dimension to the
	// slot bound.
	tw, th := w, sh*w/sw
	if th > h {
		tw, th = sw*h/sh, h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	ox := (w - tw) / 2
	oy := (h - th) / 2
	target := image.Rect(ox, oy, ox+tw, oy+th)
	xdraw.CatmullRom.Scale(dst, target, src, sb, xdraw.Over, nil)
	return dst
}

// Paste draws src onto dst with its top-left corner at (x, y).
func Paste(dst *image.RGBA, src image.Image, x, y int) {
	sb := src.Bounds()
	target := image.Rect(x, y, x+sb.Dx(), y+sb.Dy())
	stddraw.Draw(dst, target, src, sb.Min, stddraw.Over)
}

// Clone returns an independent RGBA copy of src. Stages that annotate a
// panel work on a clone so the original artwork stays reusable.
func Clone(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(dst, dst.Bounds(), src, b.Min, stddraw.Src)
	return dst
}
