// Package visualization renders optional overlays for the analysis
// pipeline: sampled line positions, measured thickness extents and the
// depth ruler. It implements the analysis Observer hooks and is a pure
// side channel; nothing here influences measurement results.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"slicethickness/internal/models"
)

// lineColors rotate across sampled lines: green, red, blue.
var lineColors = []color.RGBA{
	{G: 255, A: 255},
	{R: 255, A: 255},
	{B: 255, A: 255},
}

// Visualizer displays frames in OpenCV windows and/or saves annotated
// JPEGs of measured frames. Windows block on a keypress, matching the
// step-through workflow of the original tool.
type Visualizer struct {
	// ShowWindows enables on-screen display. Each displayed frame
	// blocks until dismissed with a keypress.
	ShowWindows bool

	// SaveDir, when non-empty, receives annotated frames as JPEGs.
	SaveDir string

	// MaxDepthMM positions the depth ruler on measured frames.
	MaxDepthMM float64
}

// NewVisualizer creates a visualizer. If saveDir is non-empty it is
// created on first save.
func NewVisualizer(showWindows bool, saveDir string, maxDepthMM float64) *Visualizer {
	return &Visualizer{
		ShowWindows: showWindows,
		SaveDir:     saveDir,
		MaxDepthMM:  maxDepthMM,
	}
}

// FrameRead displays the raw decoded frame.
func (v *Visualizer) FrameRead(index int, frame gocv.Mat) {
	v.show("Original Frame", frame)
}

// FramePreprocessed displays the grayscale, blurred frame after the
// exclusion band has been zeroed.
func (v *Visualizer) FramePreprocessed(index int, gray gocv.Mat) {
	v.show("Preprocessed Frame", gray)
}

// ProfilesSampled overlays the sampled column positions on the frame.
func (v *Visualizer) ProfilesSampled(index int, frame gocv.Mat, columns []int, profiles [][]float64) {
	if !v.ShowWindows {
		return
	}

	overlay := v.toColor(frame)
	defer overlay.Close()

	height := overlay.Rows()
	for i, col := range columns {
		c := lineColors[i%len(lineColors)]
		gocv.Line(&overlay, image.Pt(col, 0), image.Pt(col, height-1), c, 1)
	}

	v.show("Vertical Lines", overlay)
}

// SampleMeasured overlays the measured thickness extent centered on each
// sampled column plus a ruler line at the sample's depth, then displays
// and/or saves the annotated frame.
func (v *Visualizer) SampleMeasured(index int, frame gocv.Mat, sample models.Sample) {
	if !v.ShowWindows && v.SaveDir == "" {
		return
	}

	overlay := v.toColor(frame)
	defer overlay.Close()

	height := overlay.Rows()
	width := overlay.Cols()
	thickness := int(sample.ThicknessPX)
	markWidth := clampInt(minInt(height/100, width/100), 1, 10)

	middle := width / 2
	c := lineColors[0]
	top := maxInt(0, height/2-thickness/2)
	bottom := minInt(height-1, height/2+thickness/2)
	gocv.Line(&overlay, image.Pt(middle, top), image.Pt(middle, bottom), c, markWidth)
	gocv.PutText(&overlay, fmt.Sprintf("Thickness: %.2f", sample.ThicknessPX),
		image.Pt(middle+10, top+10), gocv.FontHersheySimplex, 0.5, c, 1)

	if v.MaxDepthMM > 0 {
		rulerY := int(float64(height) * (1 - sample.DepthMM/v.MaxDepthMM))
		rulerY = clampInt(rulerY, 0, height-1)
		white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		gocv.Line(&overlay, image.Pt(0, rulerY), image.Pt(width-1, rulerY), white, 2)
		gocv.PutText(&overlay, fmt.Sprintf("Depth: %.2f mm", sample.DepthMM),
			image.Pt(10, maxInt(10, rulerY-10)), gocv.FontHersheySimplex, 0.5, white, 1)
	}

	v.show("Intensity Profile", overlay)

	if v.SaveDir != "" {
		if err := v.saveAnnotated(index, overlay); err != nil {
			fmt.Printf("Warning: failed to save annotated frame %d: %v\n", index, err)
		}
	}
}

// ExclusionPreview displays the first frame with horizontal guide lines
// every 25 pixels to help pick an exclusion offset, then a confirmation
// view with the chosen offset drawn in red. A negative offset skips the
// confirmation view.
func (v *Visualizer) ExclusionPreview(frame gocv.Mat, offsetPX float64) {
	if !v.ShowWindows {
		return
	}

	guides := v.toColor(frame)
	defer guides.Close()

	width := guides.Cols()
	green := lineColors[0]
	for y := 25; y < guides.Rows(); y += 25 {
		gocv.Line(&guides, image.Pt(0, y), image.Pt(width, y), green, 1)
	}
	v.show("Exclusion Zone Selection", guides)

	if offsetPX < 0 {
		return
	}

	preview := v.toColor(frame)
	defer preview.Close()

	red := lineColors[1]
	gocv.Line(&preview, image.Pt(0, int(offsetPX)), image.Pt(width, int(offsetPX)), red, 2)
	v.show("Exclusion Zone Preview", preview)
}

// toColor returns a 3-channel copy of the frame suitable for colored
// overlays. The caller must close the returned Mat.
func (v *Visualizer) toColor(frame gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	if frame.Channels() == 1 {
		gocv.CvtColor(frame, &out, gocv.ColorGrayToBGR)
	} else {
		frame.CopyTo(&out)
	}
	return out
}

// show displays the image in a blocking window when windows are enabled.
func (v *Visualizer) show(title string, img gocv.Mat) {
	if !v.ShowWindows {
		return
	}

	window := gocv.NewWindow(title)
	defer window.Close()
	window.IMShow(img)
	window.WaitKey(0)
}

// saveAnnotated writes the annotated frame to SaveDir as a JPEG.
func (v *Visualizer) saveAnnotated(index int, img gocv.Mat) error {
	if err := os.MkdirAll(v.SaveDir, 0755); err != nil {
		return err
	}

	filename := filepath.Join(v.SaveDir, fmt.Sprintf("frame_%06d.jpg", index))
	if ok := gocv.IMWrite(filename, img); !ok {
		return fmt.Errorf("failed to write %s", filename)
	}
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
