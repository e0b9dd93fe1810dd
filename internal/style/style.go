/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package style collects the named rendering constants shared by the layout
// planner, the dialogue renderers and the page assembler. Several of the
// bubble placement values are tuned by eye for 1920x1080 output; treat them
// as configuration, not derived quantities.
package style

import "image/color"

// Page canvas geometry (pixels). The canvas is sized for crisp raster export
// and is rescaled for PDF/video output.
const (
	PageWidth   = 2400
	PageHeight  = 3200
	PagePadding = 40 // margin from page edges to the content area
	PageGutter  = 24 // spacing between adjacent slots
	// Vertical gap between pages in the stacked multi-page preview raster.
	PageStackGap = 30
)

// Normalized panel artwork size before slot fitting.
const (
	PanelWidth  = 800
	PanelHeight = 600
)

// Below-panel dialogue strip.
const (
	StripPaddingX   = 20
	StripPaddingY   = 10
	StripLineHeight = 25
	StripFontSize   = 18
)

// Bottom-of-panel narration overlay.
const (
	NarrationMarginX    = 20
	NarrationMarginY    = 10
	NarrationLineHeight = 25
	NarrationAlpha      = 200 // out of 255, white overlay
)

// Speech bubbles (anchor-based renderer).
const (
	BubbleMaxWidth  = 300
	BubblePadding   = 12
	BubbleRadius    = 14
	TailBaseWidth   = 18
	TailLength      = 40
	// Vertical lift of the bubble's bottom edge above a face anchor; the
	// larger value applies when the anchor sits in the lower image half.
	BubbleLift     = 80
	BubbleLiftLow  = 120
	// Horizontal offset from image center for the two-speaker fixed anchors.
	FixedAnchorSpread = 150
)

// PDF output (points; US Letter).
const (
	PDFPageWidthPt  = 612.0
	PDFPageHeightPt = 792.0
	PDFMarginPt     = 36.0
)

// Video output fallback hold times (seconds) for pages without narration.
const (
	VideoMinPageSeconds  = 3.0
	VideoPerPanelSeconds = 2.0
)

// Shared fills.
var (
	PageBackground  = color.RGBA{255, 255, 255, 255}
	StripBackground = color.RGBA{240, 240, 240, 255}
	StripBorder     = color.RGBA{0, 0, 0, 255}
	TextColor       = color.RGBA{0, 0, 0, 255}
	BubbleFill      = color.RGBA{255, 255, 255, 255}
	BubbleStroke    = color.RGBA{0, 0, 0, 255}
	VideoLetterbox  = color.RGBA{0, 0, 0, 255}
)
