/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestClosestSide(t *testing.T) {
	r := R(100, 100, 200, 100) // spans x 100..300, y 100..200
	cases := []struct {
		p    Pt
		want string
	}{
		{Pt{90, 150}, "left"},
		{Pt{310, 150}, "right"},
		{Pt{200, 60}, "top"},
		{Pt{200, 260}, "bottom"},
	}
	for _, tc := range cases {
		if got := ClosestSide(r, tc.p); got != tc.want {
			t.Errorf("ClosestSide(%v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestComputeBubbleTailBottomAnchor(t *testing.T) {
	bubble := R(100, 100, 120, 60)
	anchor := Pt{160, 170} // just below the bubble
	g := ComputeBubbleTail(bubble, anchor, TailOptions{BaseWidth: 20, Length: 200})
	if g.Side != "bottom" {
		t.Fatalf("side = %q, want bottom", g.Side)
	}
	if g.BaseLeft.Y != 160 || g.BaseRight.Y != 160 {
		t.Fatalf("base not on bottom edge: %v %v", g.BaseLeft, g.BaseRight)
	}
	if g.Tip != (Pt{160, 170}) {
		t.Fatalf("tip = %v, want anchor (within length cap)", g.Tip)
	}
	if g.BaseRight.X-g.BaseLeft.X != 20 {
		t.Fatalf("base width = %v, want 20", g.BaseRight.X-g.BaseLeft.X)
	}
}

func TestComputeBubbleTailLengthCap(t *testing.T) {
	bubble := R(0, 0, 100, 50)
	anchor := Pt{50, 90}
	g := ComputeBubbleTail(bubble, anchor, TailOptions{BaseWidth: 16, Length: 30})
	if g.Side != "bottom" {
		t.Fatalf("side = %q, want bottom", g.Side)
	}
	// Tip should stop 30px below the base, short of the anchor.
	if g.Tip.Y != 80 {
		t.Fatalf("tip.Y = %v, want 80", g.Tip.Y)
	}
}

func TestComputeBubbleTailBaseClampedToEdge(t *testing.T) {
	bubble := R(100, 100, 100, 50)
	// Anchor just left of the bubble: base chord must stay within the left
	// edge's extent.
	anchor := Pt{90, 125}
	g := ComputeBubbleTail(bubble, anchor, TailOptions{BaseWidth: 30, Length: 60})
	if g.Side != "left" {
		t.Fatalf("side = %q, want left", g.Side)
	}
	if g.BaseLeft.Y < 100 || g.BaseRight.Y > 150 {
		t.Fatalf("base chord escapes edge: %v %v", g.BaseLeft, g.BaseRight)
	}
}

func TestComputeBubbleTailDefaultsAreDeterministic(t *testing.T) {
	bubble := R(0, 0, 100, 60)
	a := ComputeBubbleTail(bubble, Pt{50, 30}, TailOptions{})
	b := ComputeBubbleTail(bubble, Pt{50, 30}, TailOptions{})
	if a != b {
		t.Fatalf("identical inputs produced different tails: %+v vs %+v", a, b)
	}
}
