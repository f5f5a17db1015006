// Package render draws recorded IMU traces as annotated timeline images:
// acceleration and angular rate magnitude strip charts over trace time,
// with detections marked where they fired.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

const (
	dpi            = 120.0
	fontSize       = 11.0
	tickMarkLength = 5
	pixelsPerLabel = 90.0

	defaultPanelWidth  = 900
	defaultPanelHeight = 220
	defaultPanelGap    = 30

	// Default border sizes in pixels
	defaultTopBorder    = 30
	defaultLeftBorder   = 70
	defaultBottomBorder = 45
	defaultRightBorder  = 30
)

var (
	gridColor  = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	accelColor = color.RGBA{R: 0x1F, G: 0x77, B: 0xB4, A: 0xFF}
	gyroColor  = color.RGBA{R: 0x2C, G: 0xA0, B: 0x2C, A: 0xFF}
	markColor  = color.RGBA{R: 0xD6, G: 0x27, B: 0x28, A: 0xFF}
)

// Mark annotates a point in trace time, typically a detection.
type Mark struct {
	T     float64
	Label string
}

// BorderConfig defines the sizes of white space around the panels
type BorderConfig struct {
	Top    int // Space above the first panel
	Left   int // Space for magnitude scale
	Bottom int // Space for information bar
	Right  int // Right padding
}

// Config holds all configuration options for timeline visualization
type Config struct {
	PanelWidth  int
	PanelHeight int
	PanelGap    int

	FontSize float64 // Font size in points

	Borders BorderConfig
}

// TimelineRenderer handles the visualization of recorded traces
type TimelineRenderer struct {
	config   Config
	font     *truetype.Font
	fontFace font.Face
	context  *freetype.Context
}

// NewTimelineRenderer creates a new timeline renderer with the given
// configuration
func NewTimelineRenderer(config Config) (*TimelineRenderer, error) {
	// Set defaults for zero values
	if config.PanelWidth == 0 {
		config.PanelWidth = defaultPanelWidth
	}
	if config.PanelHeight == 0 {
		config.PanelHeight = defaultPanelHeight
	}
	if config.PanelGap == 0 {
		config.PanelGap = defaultPanelGap
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.Borders.Top == 0 {
		config.Borders.Top = defaultTopBorder
	}
	if config.Borders.Left == 0 {
		config.Borders.Left = defaultLeftBorder
	}
	if config.Borders.Bottom == 0 {
		config.Borders.Bottom = defaultBottomBorder
	}
	if config.Borders.Right == 0 {
		config.Borders.Right = defaultRightBorder
	}

	parsedFont, err := freetype.ParseFont(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &TimelineRenderer{
		config:  config,
		font:    parsedFont,
		context: ctx,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

// Close releases the font face.
func (r *TimelineRenderer) Close() error {
	if r.fontFace != nil {
		return r.fontFace.Close()
	}
	return nil
}

// Render creates an image with two stacked panels, acceleration
// magnitude on top and angular rate magnitude below, over the trace's
// time span. Marks are drawn as vertical lines across the top panel.
func (r *TimelineRenderer) Render(trace []imu.Sample, marks []Mark) (*image.RGBA, error) {
	if len(trace) < 2 {
		return nil, fmt.Errorf("trace too short to render (%d samples)", len(trace))
	}

	b := r.config.Borders
	fullWidth := r.config.PanelWidth + b.Left + b.Right
	fullHeight := 2*r.config.PanelHeight + r.config.PanelGap + b.Top + b.Bottom

	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	r.context.SetClip(img.Bounds())
	r.context.SetDst(img)

	accel := make([]float64, len(trace))
	gyro := make([]float64, len(trace))
	for i, s := range trace {
		accel[i] = s.Accel.Norm()
		gyro[i] = s.Gyro.Norm()
	}

	t0, t1 := trace[0].T, trace[len(trace)-1].T

	top := image.Rect(b.Left, b.Top, b.Left+r.config.PanelWidth, b.Top+r.config.PanelHeight)
	bottom := top.Add(image.Point{Y: r.config.PanelHeight + r.config.PanelGap})

	if err := r.drawPanel(img, top, trace, accel, t0, t1, accelColor, "|a| m/s²"); err != nil {
		return nil, fmt.Errorf("drawing acceleration panel: %w", err)
	}
	if err := r.drawPanel(img, bottom, trace, gyro, t0, t1, gyroColor, "|ω| rad/s"); err != nil {
		return nil, fmt.Errorf("drawing angular rate panel: %w", err)
	}
	if err := r.drawTimeScale(img, bottom, t0, t1); err != nil {
		return nil, fmt.Errorf("drawing time scale: %w", err)
	}
	if err := r.drawMarks(img, top, marks, t0, t1); err != nil {
		return nil, fmt.Errorf("drawing marks: %w", err)
	}
	if err := r.drawInfoBar(img, trace, marks); err != nil {
		return nil, fmt.Errorf("drawing info bar: %w", err)
	}

	return img, nil
}

func (r *TimelineRenderer) drawPanel(img *image.RGBA, area image.Rectangle, trace []imu.Sample, series []float64, t0, t1 float64, lineColor color.Color, title string) error {
	lo, hi := seriesBounds(series)

	drawFrame(img, area)

	// Horizontal grid lines with magnitude labels
	step := niceStep(hi-lo, area.Dy(), pixelsPerLabel)
	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	for v := math.Ceil(lo/step) * step; v <= hi; v += step {
		y := area.Max.Y - int((v-lo)/(hi-lo)*float64(area.Dy()))
		for x := area.Min.X; x < area.Max.X; x++ {
			img.Set(x, y, gridColor)
		}
		for x := area.Min.X - tickMarkLength; x < area.Min.X; x++ {
			img.Set(x, y, color.Black)
		}

		label := fmt.Sprintf("%.1f", v)
		width := font.MeasureString(r.fontFace, label)
		pt := freetype.Pt(area.Min.X-tickMarkLength-width.Round()-4, y+fontHeight/2-metrics.Descent.Round())
		if _, err := r.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing magnitude label: %w", err)
		}
	}

	// Polyline
	prevX, prevY := -1, 0
	for i, s := range trace {
		x := area.Min.X + int((s.T-t0)/(t1-t0)*float64(area.Dx()-1))
		y := area.Max.Y - 1 - int((series[i]-lo)/(hi-lo)*float64(area.Dy()-2))
		if prevX >= 0 {
			drawLine(img, prevX, prevY, x, y, lineColor)
		}
		prevX, prevY = x, y
	}

	// Panel title above the top-left corner
	pt := freetype.Pt(area.Min.X+4, area.Min.Y-4)
	if _, err := r.context.DrawString(title, pt); err != nil {
		return fmt.Errorf("drawing panel title: %w", err)
	}
	return nil
}

func (r *TimelineRenderer) drawTimeScale(img *image.RGBA, area image.Rectangle, t0, t1 float64) error {
	step := niceStep(t1-t0, area.Dx(), pixelsPerLabel)

	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := area.Max.Y + tickMarkLength + fontHeight

	for t := math.Ceil(t0/step) * step; t <= t1; t += step {
		x := area.Min.X + int((t-t0)/(t1-t0)*float64(area.Dx()-1))

		for y := area.Max.Y; y < area.Max.Y+tickMarkLength; y++ {
			img.Set(x, y, color.Black)
		}

		label := fmt.Sprintf("%.2fs", t)
		width := font.MeasureString(r.fontFace, label)
		pt := freetype.Pt(x-width.Round()/2, textY)
		if _, err := r.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing time label: %w", err)
		}
	}
	return nil
}

func (r *TimelineRenderer) drawMarks(img *image.RGBA, area image.Rectangle, marks []Mark, t0, t1 float64) error {
	for _, m := range marks {
		if m.T < t0 || m.T > t1 {
			continue
		}
		x := area.Min.X + int((m.T-t0)/(t1-t0)*float64(area.Dx()-1))
		for y := area.Min.Y; y < area.Max.Y; y++ {
			img.Set(x, y, markColor)
		}

		pt := freetype.Pt(x+3, area.Min.Y+12)
		if _, err := r.context.DrawString(m.Label, pt); err != nil {
			return fmt.Errorf("drawing mark label: %w", err)
		}
	}
	return nil
}

func (r *TimelineRenderer) drawInfoBar(img *image.RGBA, trace []imu.Sample, marks []Mark) error {
	duration := trace[len(trace)-1].T - trace[0].T

	var rate string
	if duration > 0 {
		value, prefix := humanize.ComputeSI(float64(len(trace)-1) / duration)
		rate = fmt.Sprintf("%.1f %sHz", value, prefix)
	} else {
		rate = "n/a"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Samples: %d", len(trace)))
	sb.WriteString(fmt.Sprintf("; Span: %.2fs", duration))
	sb.WriteString(fmt.Sprintf("; Rate: %s", rate))
	sb.WriteString(fmt.Sprintf("; Detections: %d", len(marks)))

	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := img.Bounds().Max.Y - (r.config.Borders.Bottom-fontHeight)/2 - metrics.Descent.Round()

	pt := freetype.Pt(r.config.Borders.Left, textY)
	if _, err := r.context.DrawString(sb.String(), pt); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}
	return nil
}

// Helper functions

func seriesBounds(series []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range series {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		// Flat series still gets a visible band
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}

// niceStep picks a 1/2/5-scaled step so labels land roughly every
// pixelsPerLabel pixels.
func niceStep(span float64, pixels int, perLabel float64) float64 {
	if span <= 0 {
		return 1
	}
	target := span / math.Max(1, float64(pixels)/perLabel)

	mag := math.Pow(10, math.Floor(math.Log10(target)))
	for _, m := range []float64{1, 2, 5, 10} {
		if step := m * mag; step >= target {
			return step
		}
	}
	return 10 * mag
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawFrame(img *image.RGBA, area image.Rectangle) {
	for x := area.Min.X; x < area.Max.X; x++ {
		img.Set(x, area.Min.Y, color.Black)
		img.Set(x, area.Max.Y-1, color.Black)
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		img.Set(area.Min.X, y, color.Black)
		img.Set(area.Max.X-1, y, color.Black)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
