/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pipeline orchestrates a full comic run: story, artwork,
// narration, layout, assembly and optionally video. Collaborator failures
// degrade (fallback story, placeholder art, silent panels); only assembly
// and output I/O abort the run.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"comicforge/internal/assemble"
	"comicforge/internal/bubble"
	"comicforge/internal/domain"
	"comicforge/internal/imagegen"
	"comicforge/internal/layout"
	applog "comicforge/internal/log"
	"comicforge/internal/speech"
	"comicforge/internal/story"
	"comicforge/internal/video"
)

// CharacterFinder looks up roster characters mentioned in a scene so their
// reference images can condition the artwork.
type CharacterFinder interface {
	FindInText(ctx context.Context, text string) ([]domain.Character, error)
}

// Options configures one run.
type Options struct {
	Topic            string
	Panels           int
	Pages            int
	AvgPanelsPerPage float64
	OutputDir        string
	Seed             int64
	Workers          int
	MakeVideo        bool
}

// Result reports what a run produced.
type Result struct {
	RunID      string
	Panels     int
	Pages      int
	RasterPath string
	PDFPath    string
	VideoPath  string
}

// Pipeline wires the collaborators. Story, Images, Speech, Characters and
// Video are optional; a nil collaborator degrades (offline story,
// placeholder art, silent video, no video).
type Pipeline struct {
	Story      story.Generator
	Images     imagegen.Generator
	Speech     speech.Synthesizer
	Characters CharacterFinder
	Dialogue   bubble.Renderer
	Video      *video.Sequencer
}

// Run executes the whole pipeline and writes artifacts under
// opts.OutputDir. The layout geometry is computed once and shared by the
// page assembler and the video sequencer.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	log := applog.WithComponent("pipeline")
	if opts.Panels < 1 {
		opts.Panels = 6
	}
	if opts.Pages < 1 {
		opts.Pages = 1
	}
	if opts.AvgPanelsPerPage <= 0 {
		opts.AvgPanelsPerPage = float64(opts.Panels) / float64(opts.Pages)
	}
	if opts.Workers < 1 {
		opts.Workers = 4
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: output dir: %w", err)
	}

	runID := uuid.NewString()
	log = log.With("run", runID)
	log.Info("run started", "topic", opts.Topic, "panels", opts.Panels, "pages", opts.Pages)

	scripts := p.generateScripts(ctx, opts, log)
	panels, err := p.generatePanels(ctx, scripts, opts.Workers)
	if err != nil {
		return nil, err
	}
	audio := p.synthesizeNarration(ctx, panels, opts.OutputDir, log)

	rng := rand.New(rand.NewSource(opts.Seed))
	layouts := layout.Plan(len(panels), opts.Pages, opts.AvgPanelsPerPage, rng)
	if len(layouts) == 0 {
		return nil, assemble.ErrNoPanels
	}

	asm := assemble.New(p.Dialogue)
	res := &Result{
		RunID:      runID,
		Panels:     len(panels),
		Pages:      len(layouts),
		RasterPath: filepath.Join(opts.OutputDir, "comic.png"),
		PDFPath:    filepath.Join(opts.OutputDir, "comic.pdf"),
	}
	if err := asm.WriteRaster(res.RasterPath, panels, layouts); err != nil {
		return nil, err
	}
	if err := asm.WritePDF(res.PDFPath, panels, layouts); err != nil {
		return nil, err
	}

	if opts.MakeVideo && p.Video != nil {
		res.VideoPath = filepath.Join(opts.OutputDir, "comic.mp4")
		if err := p.Video.Render(ctx, res.VideoPath, panels, audio, layouts); err != nil {
			return nil, err
		}
	}

	log.Info("run finished", "pages", res.Pages, "video", res.VideoPath != "")
	return res, nil
}

// generateScripts asks the story collaborator for panel scripts, falling
// back to the deterministic offline story on any failure.
func (p *Pipeline) generateScripts(ctx context.Context, opts Options, log *slog.Logger) []domain.PanelScript {
	if p.Story == nil {
		return story.Fallback(opts.Topic, opts.Panels)
	}
	scripts, err := p.Story.GenerateStory(ctx, opts.Topic, opts.Panels)
	if err != nil || len(scripts) == 0 {
		log.Warn("story generation failed, using fallback story", "err", err)
		return story.Fallback(opts.Topic, opts.Panels)
	}
	return scripts
}

// generatePanels renders artwork for every script concurrently. Panel
// order is fixed up front by index; workers only fill in images, so
// concurrency cannot desynchronize image, dialogue and narration.
func (p *Pipeline) generatePanels(ctx context.Context, scripts []domain.PanelScript, workers int) ([]domain.Panel, error) {
	panels := make([]domain.Panel, len(scripts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, ps := range scripts {
		i, ps := i, ps
		panels[i] = domain.Panel{
			Index:     i,
			Dialogue:  ps.Dialogue,
			Narration: ps.Narration,
		}
		g.Go(func() error {
			panels[i].Image = p.panelImage(gctx, ps)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pipeline: panel generation: %w", err)
	}
	return panels, nil
}

// panelImage produces artwork for one script, attaching reference images
// for any roster characters the scene mentions.
func (p *Pipeline) panelImage(ctx context.Context, ps domain.PanelScript) image.Image {
	if p.Images == nil {
		return imagegen.Placeholder(ps.SceneDescription)
	}
	var refs []string
	if p.Characters != nil {
		mentioned, err := p.Characters.FindInText(ctx, ps.SceneDescription+" "+ps.Dialogue)
		if err != nil {
			applog.WithComponent("pipeline").Warn("character lookup failed", "err", err)
		}
		for _, c := range mentioned {
			if c.RefImagePath != "" {
				refs = append(refs, c.RefImagePath)
			}
		}
	}
	return p.Images.GeneratePanel(ctx, ps.SceneDescription, refs)
}

// synthesizeNarration renders one clip per panel with text. Failures are
// logged and the panel stays silent.
func (p *Pipeline) synthesizeNarration(ctx context.Context, panels []domain.Panel, outDir string, log *slog.Logger) map[int]string {
	if p.Speech == nil {
		return nil
	}
	audioDir := filepath.Join(outDir, "audio")
	clips := make(map[int]string, len(panels))
	for _, pn := range panels {
		text := pn.Text()
		if text == "" {
			continue
		}
		path, err := p.Speech.Synthesize(ctx, text, filepath.Join(audioDir, fmt.Sprintf("panel-%03d.mp3", pn.Index)))
		if err != nil {
			log.Warn("narration failed, panel stays silent", "panel", pn.Index, "err", err)
			continue
		}
		if path != "" {
			clips[pn.Index] = path
		}
	}
	return clips
}
