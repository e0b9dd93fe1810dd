/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// TailOptions controls the generated tail geometry.
// Units are the same as the canvas (pixels).
// Deterministic results are ensured by rounding output points to 3 decimals.
type TailOptions struct {
	// BaseWidth is the width where the tail attaches to the bubble edge.
	BaseWidth float32
	// Length caps the distance from the base center to the tip. If the
	// anchor is nearer than Length the tip lands exactly on the anchor.
	Length float32
}

// TailGeometry describes the generated triangular tail points.
type TailGeometry struct {
	BaseLeft   Pt
	BaseRight  Pt
	BaseCenter Pt
	Tip        Pt
	Side       string // bubble edge the tail leaves from: left/right/top/bottom
}

// ComputeBubbleTail creates a tail for a rectangular speech bubble. The tail
// exits from whichever bubble edge is geometrically closest to the speaker
// anchor and points at the anchor. The base chord is centered on the
// anchor's projection onto that edge, clamped so it stays on the edge.
func ComputeBubbleTail(bubble Rect, anchor Pt, opts TailOptions) TailGeometry {
	// sanity defaults
	if opts.BaseWidth <= 0 {
		opts.BaseWidth = max32(8, min32(bubble.W, bubble.H)*0.1)
	}
	if opts.Length <= 0 {
		opts.Length = max32(16, min32(bubble.W, bubble.H)*0.2)
	}

	side := ClosestSide(bubble, anchor)
	halfW := opts.BaseWidth / 2

	var bc, bl, br Pt
	switch side {
	case "top":
		x := clamp32(anchor.X, bubble.X+halfW, bubble.X+bubble.W-halfW)
		bc = Pt{x, bubble.Y}
		bl = Pt{x - halfW, bubble.Y}
		br = Pt{x + halfW, bubble.Y}
	case "bottom":
		x := clamp32(anchor.X, bubble.X+halfW, bubble.X+bubble.W-halfW)
		bc = Pt{x, bubble.Y + bubble.H}
		bl = Pt{x - halfW, bubble.Y + bubble.H}
		br = Pt{x + halfW, bubble.Y + bubble.H}
	case "left":
		y := clamp32(anchor.Y, bubble.Y+halfW, bubble.Y+bubble.H-halfW)
		bc = Pt{bubble.X, y}
		bl = Pt{bubble.X, y - halfW}
		br = Pt{bubble.X, y + halfW}
	default: // right
		y := clamp32(anchor.Y, bubble.Y+halfW, bubble.Y+bubble.H-halfW)
		bc = Pt{bubble.X + bubble.W, y}
		bl = Pt{bubble.X + bubble.W, y - halfW}
		br = Pt{bubble.X + bubble.W, y + halfW}
	}

	// Tip towards the anchor, capped by Length. An anchor inside the bubble
	// degenerates to a short stub pointing outward.
	vx, vy := anchor.X-bc.X, anchor.Y-bc.Y
	dist := Hypot(vx, vy)
	tip := anchor
	if dist == 0 {
		tip = Pt{bc.X, bc.Y - opts.Length}
	} else if dist > opts.Length {
		tip = Pt{bc.X + vx/dist*opts.Length, bc.Y + vy/dist*opts.Length}
	}

	round := func(p Pt) Pt { return Pt{FloatRound(p.X, 3), FloatRound(p.Y, 3)} }
	return TailGeometry{
		BaseLeft:   round(bl),
		BaseRight:  round(br),
		BaseCenter: round(bc),
		Tip:        round(tip),
		Side:       side,
	}
}

// ClosestSide names the bubble edge nearest to p: left, right, top or bottom.
// Ties resolve in that axis order so results stay deterministic.
func ClosestSide(r Rect, p Pt) string {
	dLeft := float32(math.Abs(float64(p.X - r.X)))
	dRight := float32(math.Abs(float64(p.X - (r.X + r.W))))
	dTop := float32(math.Abs(float64(p.Y - r.Y)))
	dBottom := float32(math.Abs(float64(p.Y - (r.Y + r.H))))

	best := "left"
	bestD := dLeft
	if dRight < bestD {
		best, bestD = "right", dRight
	}
	if dTop < bestD {
		best, bestD = "top", dTop
	}
	if dBottom < bestD {
		best = "bottom"
	}
	return best
}

func clamp32(v, lo, hi float32) float32 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
