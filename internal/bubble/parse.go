/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package bubble renders panel dialogue, either as a below-panel strip or
// as anchor-based speech bubbles. Both renderers share one utterance
// parser and are interchangeable behind the Renderer interface.
package bubble

import (
	"strings"

	"comicforge/internal/domain"
)

// Separator between utterances in a panel's raw dialogue string.
const utteranceSeparator = " | "

// ParseUtterances splits a raw dialogue string into ordered utterances.
// Segments are separated by " | "; within a segment, text before the first
// ":" names the speaker and the remainder is the line. A segment without a
// colon is speaker-less narration. Blank input yields nil; a string whose
// segments are all blank degrades to one speaker-less utterance carrying
// the trimmed original, so malformed separator use never aborts a render.
func ParseUtterances(raw string) []domain.Utterance {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	var uts []domain.Utterance
	for _, seg := range strings.Split(trimmed, utteranceSeparator) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if i := strings.Index(seg, ":"); i >= 0 {
			speaker := strings.TrimSpace(seg[:i])
			text := strings.TrimSpace(seg[i+1:])
			if speaker == "" && text == "" {
				continue
			}
			uts = append(uts, domain.Utterance{Speaker: speaker, Text: text})
			continue
		}
		uts = append(uts, domain.Utterance{Text: seg})
	}
	if len(uts) == 0 {
		return []domain.Utterance{{Text: trimmed}}
	}
	return uts
}

// hasSpeaker reports whether any utterance carries a speaker name. It
// decides between strip mode (labeled dialogue) and narration mode.
// Mixed input where narration precedes labeled dialogue still selects
// strip mode: the narration overlay cannot show speaker labels, and a
// labeled line must never lose its label.
func hasSpeaker(uts []domain.Utterance) bool {
	for _, u := range uts {
		if u.Speaker != "" {
			return true
		}
	}
	return false
}

// formatLine renders an utterance back to its display form.
func formatLine(u domain.Utterance) string {
	if u.Speaker == "" {
		return u.Text
	}
	return u.Speaker + ": " + u.Text
}
