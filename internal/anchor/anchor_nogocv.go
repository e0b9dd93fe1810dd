/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

//go:build !gocv

package anchor

import (
	"image"

	"comicforge/internal/domain"
)

// FaceDetector is a stub when the binary is built without the gocv tag.
// Detect always fails so callers fall back to fixed positions.
type FaceDetector struct{}

func NewFaceDetector(cascadePath string) (*FaceDetector, error) {
	return nil, ErrUnavailable
}

func (d *FaceDetector) Detect(img image.Image, count int) ([]domain.SpeakerAnchor, error) {
	return nil, ErrUnavailable
}

func (d *FaceDetector) Close() error { return nil }
