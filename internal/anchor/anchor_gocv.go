/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

//go:build gocv

package anchor

import (
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"

	"comicforge/internal/domain"
)

// FaceDetector locates faces with an OpenCV Haar cascade. Centers come
// back sorted left to right so they line up with speaking order.
type FaceDetector struct {
	classifier gocv.CascadeClassifier
}

// NewFaceDetector loads the cascade model at cascadePath.
func NewFaceDetector(cascadePath string) (*FaceDetector, error) {
	c := gocv.NewCascadeClassifier()
	if !c.Load(cascadePath) {
		c.Close()
		return nil, fmt.Errorf("anchor: load cascade %s: %w", cascadePath, ErrUnavailable)
	}
	return &FaceDetector{classifier: c}, nil
}

func (d *FaceDetector) Detect(img image.Image, count int) ([]domain.SpeakerAnchor, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("anchor: convert image: %w", err)
	}
	defer mat.Close()

	rects := d.classifier.DetectMultiScale(mat)
	anchors := make([]domain.SpeakerAnchor, 0, len(rects))
	for _, r := range rects {
		anchors = append(anchors, domain.SpeakerAnchor{
			X: r.Min.X + r.Dx()/2,
			Y: r.Min.Y + r.Dy()/2,
		})
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].X < anchors[j].X })
	if len(anchors) > count {
		anchors = anchors[:count]
	}
	return anchors, nil
}

func (d *FaceDetector) Close() error {
	return d.classifier.Close()
}
