/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"comicforge/internal/anchor"
	"comicforge/internal/assemble"
	"comicforge/internal/bubble"
	"comicforge/internal/characters"
	"comicforge/internal/config"
	"comicforge/internal/crash"
	"comicforge/internal/domain"
	"comicforge/internal/imagegen"
	"comicforge/internal/layout"
	"comicforge/internal/limiter"
	applog "comicforge/internal/log"
	"comicforge/internal/pipeline"
	"comicforge/internal/speech"
	"comicforge/internal/story"
	"comicforge/internal/textlayout"
	"comicforge/internal/version"
	"comicforge/internal/video"

	_ "image/png"
)

func usage() {
	fmt.Println("Comicforge — comic generation pipeline")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  comicforge version|-v|--version             Show version")
	fmt.Println("  comicforge generate [flags]                 Run the full pipeline (story, art, pages, optional video)")
	fmt.Println("  comicforge assemble <panel-dir> [flags]     Lay out existing panel images into comic.png and comic.pdf")
	fmt.Println("  comicforge video <panel-dir> [flags]        Sequence existing panel images into comic.mp4")
	fmt.Println("  comicforge characters list|seed|add|remove  Manage the character roster")
	fmt.Println()
	fmt.Println("Run 'comicforge generate -h' (and so on) for per-command flags.")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	defer crash.Recover(cfg.OutputDir)

	args := os.Args
	if len(args) < 2 {
		usage()
		return
	}

	ctx := context.Background()
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Comicforge — comic generation pipeline")
		fmt.Println(version.String())
	case "generate":
		runGenerate(ctx, cfg, l, args[2:])
	case "assemble":
		runAssemble(cfg, l, args[2:])
	case "video":
		runVideo(ctx, cfg, l, args[2:])
	case "characters":
		runCharacters(ctx, l, args[2:])
	default:
		fmt.Println("Unknown command:", args[1])
		usage()
		os.Exit(2)
	}
}

func runGenerate(ctx context.Context, cfg config.AppConfig, l *slog.Logger, args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	topic := fs.String("topic", "an unexpected adventure", "story topic")
	panels := fs.Int("panels", 6, "number of panels")
	pages := fs.Int("pages", 1, "number of pages")
	avg := fs.Float64("avg", 0, "average panels per page (0 = panels/pages)")
	out := fs.String("out", cfg.OutputDir, "output directory")
	seed := fs.Int64("seed", cfg.Render.Seed, "layout seed (0 = time-derived)")
	workers := fs.Int("workers", 4, "concurrent panel workers")
	makeVideo := fs.Bool("video", false, "also produce comic.mp4 (requires ffmpeg)")
	_ = fs.Parse(args)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	dialogue, asm := newRenderStack(cfg, l)
	p := &pipeline.Pipeline{Dialogue: dialogue}

	if key := config.APIKey(config.KeyringGeminiKey); key != "" {
		st, err := story.New(ctx, key, cfg.Story.Model, cfg.Story.Temperature, limiter.PerInterval(2*time.Second))
		if err != nil {
			l.Warn("story client unavailable, using offline story", slog.Any("err", err))
		} else {
			p.Story = st
		}
		ig, err := imagegen.New(ctx, key, cfg.Image.Model, cfg.Image.RefModel, cfg.Image.Style, limiter.PerInterval(6*time.Second))
		if err != nil {
			l.Warn("image client unavailable, using placeholder art", slog.Any("err", err))
		} else {
			p.Images = ig
		}
	} else {
		l.Info("no Gemini API key configured, running offline")
	}
	if key := config.APIKey(config.KeyringSpeechKey); key != "" {
		p.Speech = speech.New(cfg.Speech.BaseURL, key, cfg.Speech.Model, cfg.Speech.Voice,
			time.Duration(cfg.Speech.TimeoutMs)*time.Millisecond, limiter.PerInterval(time.Second))
	}
	if store := openRoster(ctx, l); store != nil {
		defer store.Close()
		p.Characters = store
	}
	if *makeVideo {
		p.Video = video.New(asm, cfg.Video.Width, cfg.Video.Height, cfg.Video.FPS)
	}

	res, err := p.Run(ctx, pipeline.Options{
		Topic:            *topic,
		Panels:           *panels,
		Pages:            *pages,
		AvgPanelsPerPage: *avg,
		OutputDir:        *out,
		Seed:             *seed,
		Workers:          *workers,
		MakeVideo:        *makeVideo,
	})
	if err != nil {
		l.Error("generate failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %d panels across %d pages (run %s)\n", res.Panels, res.Pages, res.RunID)
	fmt.Println("  ", res.RasterPath)
	fmt.Println("  ", res.PDFPath)
	if res.VideoPath != "" {
		fmt.Println("  ", res.VideoPath)
	}
}

func runAssemble(cfg config.AppConfig, l *slog.Logger, args []string) {
	fs := flag.NewFlagSet("assemble", flag.ExitOnError)
	pages := fs.Int("pages", 1, "number of pages")
	avg := fs.Float64("avg", 0, "average panels per page (0 = panels/pages)")
	out := fs.String("out", cfg.OutputDir, "output directory")
	seed := fs.Int64("seed", cfg.Render.Seed, "layout seed (0 = time-derived)")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Println("assemble requires <panel-dir>")
		usage()
		os.Exit(2)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	panels, err := loadPanels(fs.Arg(0))
	if err != nil {
		l.Error("load panels failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	_, asm := newRenderStack(cfg, l)
	layouts := layout.Plan(len(panels), *pages, *avg, rand.New(rand.NewSource(*seed)))
	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	raster := filepath.Join(*out, "comic.png")
	pdf := filepath.Join(*out, "comic.pdf")
	if err := asm.WriteRaster(raster, panels, layouts); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if err := asm.WritePDF(pdf, panels, layouts); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Printf("Assembled %d panels across %d pages\n", len(panels), len(layouts))
	fmt.Println("  ", raster)
	fmt.Println("  ", pdf)
}

func runVideo(ctx context.Context, cfg config.AppConfig, l *slog.Logger, args []string) {
	fs := flag.NewFlagSet("video", flag.ExitOnError)
	pages := fs.Int("pages", 1, "number of pages")
	avg := fs.Float64("avg", 0, "average panels per page (0 = panels/pages)")
	out := fs.String("out", cfg.OutputDir, "output directory")
	seed := fs.Int64("seed", cfg.Render.Seed, "layout seed (0 = time-derived)")
	audioDir := fs.String("audio", "", "directory with panel-NNN.mp3 narration clips")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Println("video requires <panel-dir>")
		usage()
		os.Exit(2)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	panels, err := loadPanels(fs.Arg(0))
	if err != nil {
		l.Error("load panels failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	_, asm := newRenderStack(cfg, l)
	seq := video.New(asm, cfg.Video.Width, cfg.Video.Height, cfg.Video.FPS)
	layouts := layout.Plan(len(panels), *pages, *avg, rand.New(rand.NewSource(*seed)))
	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	target := filepath.Join(*out, "comic.mp4")
	if err := seq.Render(ctx, target, panels, loadAudioClips(*audioDir, len(panels)), layouts); err != nil {
		l.Error("video failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Println("Sequenced", target)
}

func runCharacters(ctx context.Context, l *slog.Logger, args []string) {
	if len(args) < 1 {
		fmt.Println("characters requires list|seed|add|remove")
		os.Exit(2)
	}
	store := openRoster(ctx, l)
	if store == nil {
		fmt.Println("Error: character store unavailable")
		os.Exit(1)
	}
	defer store.Close()

	switch args[0] {
	case "list":
		roster, err := store.List(ctx)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		for _, c := range roster {
			fmt.Printf("%-18s %-12s %s\n", c.Name, c.Role, c.Description)
		}
	case "seed":
		if err := store.SeedDefaults(ctx); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println("Seeded default roster (existing entries untouched).")
	case "add":
		if len(args) < 4 {
			fmt.Println("characters add requires <name> <role> <description> [visual-traits] [ref-image]")
			os.Exit(2)
		}
		c := domain.Character{Name: args[1], Role: args[2], Description: args[3]}
		if len(args) > 4 {
			c.VisualTraits = args[4]
		}
		if len(args) > 5 {
			c.RefImagePath = args[5]
		}
		if err := store.Upsert(ctx, c); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println("Saved", c.Name)
	case "remove":
		if len(args) < 2 {
			fmt.Println("characters remove requires <name>")
			os.Exit(2)
		}
		if err := store.Delete(ctx, args[1]); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println("Removed", args[1])
	default:
		fmt.Println("Unknown characters subcommand:", args[0])
		os.Exit(2)
	}
}

// newRenderStack builds the shared font provider, dialogue renderer and
// page assembler from the render configuration.
func newRenderStack(cfg config.AppConfig, l *slog.Logger) (bubble.Renderer, *assemble.Assembler) {
	fonts, err := textlayout.Default(cfg.Render.FontPath)
	if err != nil {
		l.Warn("font load failed, using built-in face", slog.Any("err", err))
		fonts = textlayout.BasicProvider{}
	}
	var det anchor.Detector = anchor.FixedDetector{}
	if cascade := os.Getenv("CF_FACE_CASCADE"); cascade != "" {
		if fd, err := anchor.NewFaceDetector(cascade); err != nil {
			l.Warn("face detector unavailable, using fixed anchors", slog.Any("err", err))
		} else {
			det = fd
		}
	}
	dialogue := bubble.ForMode(bubble.Mode(cfg.Render.DialogueMode), fonts, det)
	return dialogue, assemble.New(dialogue)
}

// openRoster opens (and seeds on first use) the character store in the
// user config directory. Returns nil when the store cannot be opened.
func openRoster(ctx context.Context, l *slog.Logger) *characters.Store {
	path, err := config.ConfigPath()
	if err != nil {
		l.Warn("character store unavailable", slog.Any("err", err))
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.Warn("character store unavailable", slog.Any("err", err))
		return nil
	}
	store, err := characters.Open(dir)
	if err != nil {
		l.Warn("character store unavailable", slog.Any("err", err))
		return nil
	}
	if err := store.SeedDefaults(ctx); err != nil {
		l.Warn("roster seed failed", slog.Any("err", err))
	}
	return store
}

// loadPanels reads the image files in dir, sorted by name, into panels.
func loadPanels(dir string) ([]domain.Panel, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read panel dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no panel images in %s", dir)
	}
	sort.Strings(names)
	panels := make([]domain.Panel, 0, len(names))
	for i, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		panels = append(panels, domain.Panel{Index: i, Image: img})
	}
	return panels, nil
}

// loadAudioClips maps panel indices to narration clips named
// panel-NNN.mp3 under dir. Missing clips simply stay silent.
func loadAudioClips(dir string, count int) map[int]string {
	if dir == "" {
		return nil
	}
	clips := make(map[int]string)
	for i := 0; i < count; i++ {
		path := filepath.Join(dir, fmt.Sprintf("panel-%03d.mp3", i))
		if _, err := os.Stat(path); err == nil {
			clips[i] = path
		}
	}
	return clips
}
