/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"image"
	"testing"
)

func TestPanelScriptTextPrecedence(t *testing.T) {
	cases := []struct {
		name string
		p    PanelScript
		want string
	}{
		{"dialogue wins", PanelScript{Dialogue: "Hero: hi", Narration: "elsewhere"}, "Hero: hi"},
		{"narration fallback", PanelScript{Narration: "A dark night."}, "A dark night."},
		{"both empty", PanelScript{}, ""},
	}
	for _, tc := range cases {
		if got := tc.p.Text(); got != tc.want {
			t.Errorf("%s: Text() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestPanelSlotBounds(t *testing.T) {
	s := PanelSlot{PanelIndex: 3, X: 10, Y: 20, Width: 100, Height: 50}
	want := image.Rect(10, 20, 110, 70)
	if got := s.Bounds(); got != want {
		t.Fatalf("Bounds() = %v, want %v", got, want)
	}
}

func TestComicTotalSlots(t *testing.T) {
	c := Comic{Layouts: []PageLayout{
		{Slots: make([]PanelSlot, 4)},
		{Slots: make([]PanelSlot, 5)},
	}}
	if got := c.TotalSlots(); got != 9 {
		t.Fatalf("TotalSlots() = %d, want 9", got)
	}
}
