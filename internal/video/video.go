/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package video turns assembled comic pages into a narrated MP4. It reuses
// the planner's geometry via the page assembler, so the video frames match
// the printed pages exactly, and drives ffmpeg/ffprobe as subprocesses.
package video

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"

	"comicforge/internal/assemble"
	"comicforge/internal/domain"
	applog "comicforge/internal/log"
	"comicforge/internal/style"
)

// runFunc executes an external tool and returns its combined output.
// Swappable in tests so command plumbing is checkable without ffmpeg.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// Sequencer renders one held frame per page with that page's concatenated
// narration underneath and joins the pages into a single video.
type Sequencer struct {
	Assembler *assemble.Assembler
	Width     int
	Height    int
	FPS       int

	FFmpeg  string // binary name/path, default "ffmpeg"
	FFprobe string // default "ffprobe"

	run runFunc
}

func New(a *assemble.Assembler, width, height, fps int) *Sequencer {
	if width <= 0 {
		width = 1920
	}
	if height <= 0 {
		height = 1080
	}
	if fps <= 0 {
		fps = 24
	}
	return &Sequencer{
		Assembler: a,
		Width:     width,
		Height:    height,
		FPS:       fps,
		FFmpeg:    "ffmpeg",
		FFprobe:   "ffprobe",
		run:       execRun,
	}
}

// Render builds the final video at outPath. audioByPanel maps a panel
// index to its narration clip path; panels without a clip (or with a
// missing file) are simply skipped in their page's audio track. A page
// with no audio at all is held for max(3s, panels*2s).
//
// All intermediates live in a scratch directory removed on every exit
// path. No partial output file survives a failure.
func (s *Sequencer) Render(ctx context.Context, outPath string, panels []domain.Panel, audioByPanel map[int]string, layouts []domain.PageLayout) error {
	if len(panels) == 0 || len(layouts) == 0 {
		return assemble.ErrNoPanels
	}
	log := applog.WithComponent("video")

	scratch, err := os.MkdirTemp("", "comicforge-video-*")
	if err != nil {
		return fmt.Errorf("video: scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	segments := make([]string, 0, len(layouts))
	for i, pl := range layouts {
		frame := s.frameForPage(panels, pl)
		framePath := filepath.Join(scratch, fmt.Sprintf("page-%03d.png", i))
		if err := writePNG(framePath, frame); err != nil {
			return fmt.Errorf("video: page %d frame: %w", i, err)
		}

		audioPath, err := s.concatPageAudio(ctx, scratch, i, pl, audioByPanel)
		if err != nil {
			return err
		}

		dur := fallbackHold(pl.PanelCount())
		if audioPath != "" {
			if d, err := s.probeDuration(ctx, audioPath); err == nil && d > 0 {
				dur = d
			} else if err != nil {
				log.Warn("probe failed, using fallback hold", "page", i, "err", err)
				audioPath = ""
			}
		}

		seg := filepath.Join(scratch, fmt.Sprintf("seg-%03d.mp4", i))
		if err := s.encodeSegment(ctx, framePath, audioPath, seg, dur); err != nil {
			return fmt.Errorf("video: page %d segment: %w", i, err)
		}
		segments = append(segments, seg)
		log.Debug("page segment encoded", "page", i, "seconds", dur, "narrated", audioPath != "")
	}

	if err := s.concatSegments(ctx, scratch, segments, outPath); err != nil {
		os.Remove(outPath)
		return err
	}
	log.Info("video written", "path", outPath, "pages", len(segments))
	return nil
}

// frameForPage composes the page at canvas resolution and letterboxes it
// into the video frame.
func (s *Sequencer) frameForPage(panels []domain.Panel, pl domain.PageLayout) *image.RGBA {
	page := s.Assembler.RenderPage(panels, pl)
	frame := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(style.VideoLetterbox), image.Point{}, draw.Src)

	pb := page.Bounds()
	tw, th := s.Width, pb.Dy()*s.Width/pb.Dx()
	if th > s.Height {
		tw, th = pb.Dx()*s.Height/pb.Dy(), s.Height
	}
	ox, oy := (s.Width-tw)/2, (s.Height-th)/2
	xdraw.CatmullRom.Scale(frame, image.Rect(ox, oy, ox+tw, oy+th), page, pb, xdraw.Over, nil)
	return frame
}

// concatPageAudio joins the page's panel clips in slot order with the
// concat demuxer. Returns "" when no usable clip exists on the page.
func (s *Sequencer) concatPageAudio(ctx context.Context, scratch string, pageNo int, pl domain.PageLayout, audioByPanel map[int]string) (string, error) {
	var clips []string
	for _, slot := range pl.Slots {
		p, ok := audioByPanel[slot.PanelIndex]
		if !ok || p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		clips = append(clips, p)
	}
	if len(clips) == 0 {
		return "", nil
	}
	if len(clips) == 1 {
		return clips[0], nil
	}

	listPath := filepath.Join(scratch, fmt.Sprintf("audio-%03d.txt", pageNo))
	if err := writeConcatList(listPath, clips); err != nil {
		return "", fmt.Errorf("video: page %d audio list: %w", pageNo, err)
	}
	out := filepath.Join(scratch, fmt.Sprintf("audio-%03d.m4a", pageNo))
	_, err := s.run(ctx, s.FFmpeg,
		"-y", "-f", "concat", "-safe", "0", "-i", listPath,
		"-c:a", "aac", out)
	if err != nil {
		return "", fmt.Errorf("video: page %d audio concat: %w", pageNo, err)
	}
	return out, nil
}

// encodeSegment holds one frame for dur seconds, muxing the page audio or
// silence so every segment carries identical stream layouts for the final
// stream-copy concat.
func (s *Sequencer) encodeSegment(ctx context.Context, framePath, audioPath, outPath string, dur float64) error {
	args := []string{"-y", "-loop", "1", "-i", framePath}
	if audioPath != "" {
		args = append(args, "-i", audioPath)
	} else {
		args = append(args, "-f", "lavfi", "-i", "anullsrc=channel_layout=stereo:sample_rate=44100")
	}
	args = append(args,
		"-t", formatSeconds(dur),
		"-r", strconv.Itoa(s.FPS),
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-c:a", "aac", "-shortest",
		outPath)
	_, err := s.run(ctx, s.FFmpeg, args...)
	return err
}

func (s *Sequencer) concatSegments(ctx context.Context, scratch string, segments []string, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("video: output dir: %w", err)
		}
	}
	listPath := filepath.Join(scratch, "segments.txt")
	if err := writeConcatList(listPath, segments); err != nil {
		return fmt.Errorf("video: segment list: %w", err)
	}
	_, err := s.run(ctx, s.FFmpeg,
		"-y", "-f", "concat", "-safe", "0", "-i", listPath,
		"-c", "copy", outPath)
	if err != nil {
		return fmt.Errorf("video: final concat: %w", err)
	}
	return nil
}

// probeDuration asks ffprobe for a media file's duration in seconds.
func (s *Sequencer) probeDuration(ctx context.Context, path string) (float64, error) {
	out, err := s.run(ctx, s.FFprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("video: parse duration of %s: %w", path, err)
	}
	return d, nil
}

// fallbackHold is the frame hold for a page without narration.
func fallbackHold(panelCount int) float64 {
	d := float64(panelCount) * style.VideoPerPanelSeconds
	if d < style.VideoMinPageSeconds {
		d = style.VideoMinPageSeconds
	}
	return d
}

func formatSeconds(d float64) string {
	return strconv.FormatFloat(d, 'f', 3, 64)
}

// writeConcatList emits an ffmpeg concat-demuxer file list. Single quotes
// in paths are escaped per the demuxer's quoting rules.
func writeConcatList(path string, files []string) error {
	var b strings.Builder
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(abs, "'", `'\''`))
		b.WriteString("'\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
