/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package imagegen

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"comicforge/internal/textlayout"
)

// PlaceholderSize is the fixed edge length of the substitute panel.
const PlaceholderSize = 512

var (
	placeholderFill = color.RGBA{210, 210, 210, 255}
	placeholderText = color.RGBA{60, 60, 60, 255}
)

// Placeholder builds the substitute panel used when generation fails: a
// gray square captioned with the scene so the reader can tell what should
// have been there. Downstream stages treat it like any other panel image.
func Placeholder(scene string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderFill), image.Point{}, draw.Src)

	face, met := textlayout.BasicProvider{}.Resolve(textlayout.FontSpec{})
	margin := 24
	lines := textlayout.Wrap(face, "[image unavailable] "+scene, PlaceholderSize-2*margin)
	lineH := int(met.LineHeight()) + 2
	y := PlaceholderSize/2 - len(lines)*lineH/2 + int(met.Ascent)
	for _, ln := range lines {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(placeholderText),
			Face: face,
			Dot:  fixed.P(margin, y),
		}
		d.DrawString(ln)
		y += lineH
	}
	return img
}
