/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package anchor locates speaker positions inside panel artwork for
// speech-bubble placement. Detection is optional: the deterministic fixed
// detector always works, and failures of richer detectors must degrade to
// it rather than aborting a render.
package anchor

import (
	"errors"
	"image"

	"comicforge/internal/domain"
	"comicforge/internal/style"
)

// ErrUnavailable reports that no real face detector is compiled in or its
// model could not be loaded.
var ErrUnavailable = errors.New("anchor: face detection unavailable")

// Detector yields one anchor per expected utterance, ordered to match
// speaking order (left to right on the panel).
type Detector interface {
	Detect(img image.Image, count int) ([]domain.SpeakerAnchor, error)
}

// FixedDetector places anchors at deterministic positions keyed by
// utterance index and total count. It never fails.
type FixedDetector struct{}

func (FixedDetector) Detect(img image.Image, count int) ([]domain.SpeakerAnchor, error) {
	return FixedPositions(img.Bounds(), count), nil
}

// FixedPositions computes the fallback anchor points for count utterances
// within bounds: one speaker sits top-center, two flank the center, and
// more spread evenly along the top edge.
func FixedPositions(bounds image.Rectangle, count int) []domain.SpeakerAnchor {
	if count <= 0 {
		return nil
	}
	w, h := bounds.Dx(), bounds.Dy()
	y := bounds.Min.Y + h/4
	cx := bounds.Min.X + w/2

	switch count {
	case 1:
		return []domain.SpeakerAnchor{{X: cx, Y: y}}
	case 2:
		return []domain.SpeakerAnchor{
			{X: cx - style.FixedAnchorSpread, Y: y},
			{X: cx + style.FixedAnchorSpread, Y: y},
		}
	default:
		anchors := make([]domain.SpeakerAnchor, 0, count)
		for i := 0; i < count; i++ {
			anchors = append(anchors, domain.SpeakerAnchor{
				X: bounds.Min.X + (i+1)*w/(count+1),
				Y: y,
			})
		}
		return anchors
	}
}

// Resolve runs det and falls back to fixed positions when detection fails
// or yields fewer anchors than needed. It never returns an error.
func Resolve(det Detector, img image.Image, count int) []domain.SpeakerAnchor {
	if count <= 0 {
		return nil
	}
	if det == nil {
		det = FixedDetector{}
	}
	anchors, err := det.Detect(img, count)
	if err != nil || len(anchors) == 0 {
		return FixedPositions(img.Bounds(), count)
	}
	if len(anchors) < count {
		anchors = append(anchors, FixedPositions(img.Bounds(), count)[len(anchors):]...)
	}
	return anchors[:count]
}
