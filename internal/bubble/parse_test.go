/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package bubble

import (
	"testing"

	"comicforge/internal/domain"
)

func TestParseUtterances_TwoSpeakers(t *testing.T) {
	got := ParseUtterances("Iron Man: I'll save the day! | Captain America: Not without me!")
	want := []domain.Utterance{
		{Speaker: "Iron Man", Text: "I'll save the day!"},
		{Speaker: "Captain America", Text: "Not without me!"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d utterances, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("utterance %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseUtterances_NoColon(t *testing.T) {
	got := ParseUtterances("Just a quiet moment.")
	if len(got) != 1 || got[0].Speaker != "" || got[0].Text != "Just a quiet moment." {
		t.Fatalf("got %+v", got)
	}
}

func TestParseUtterances_Empty(t *testing.T) {
	if got := ParseUtterances(""); got != nil {
		t.Fatalf("empty string should yield nil, got %v", got)
	}
	if got := ParseUtterances("   "); got != nil {
		t.Fatalf("blank string should yield nil, got %v", got)
	}
}

func TestParseUtterances_FirstColonOnly(t *testing.T) {
	got := ParseUtterances("Narrator: Meanwhile: elsewhere")
	if len(got) != 1 {
		t.Fatalf("got %v", got)
	}
	if got[0].Speaker != "Narrator" || got[0].Text != "Meanwhile: elsewhere" {
		t.Fatalf("split must use the first colon only: %+v", got[0])
	}
}

func TestParseUtterances_MalformedSeparators(t *testing.T) {
	// Nothing but separators: degrade to a single speaker-less utterance
	// rather than dropping the text or failing.
	got := ParseUtterances(" |  | ")
	if len(got) != 1 || got[0].Speaker != "" {
		t.Fatalf("malformed input should degrade to one utterance: %v", got)
	}
}

func TestParseUtterances_BlankSegmentSkipped(t *testing.T) {
	got := ParseUtterances("A: hi |  | B: bye")
	if len(got) != 2 || got[0].Speaker != "A" || got[1].Speaker != "B" {
		t.Fatalf("got %v", got)
	}
}

func TestParseUtterances_OrderPreserved(t *testing.T) {
	got := ParseUtterances("A: one | B: two | C: three")
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
	for i, sp := range []string{"A", "B", "C"} {
		if got[i].Speaker != sp {
			t.Fatalf("utterance %d speaker %q, want %q", i, got[i].Speaker, sp)
		}
	}
}
