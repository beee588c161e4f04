// Package quality scores a candidate photo for resolution, brightness and
// blur before the paid vision call is made. Egregious failures block
// submission outright; borderline failures can be overridden by the user.
package quality

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
)

type Mode int

const (
	ModeStandard Mode = iota
	ModeLenient // quick-diagnosis flow: trades precision for speed
)

func (m Mode) String() string {
	if m == ModeLenient {
		return "lenient"
	}
	return "standard"
}

type Issue string

const (
	IssueNone       Issue = "none"
	IssueBlur       Issue = "blur"
	IssueDark       Issue = "dark"
	IssueBright     Issue = "bright"
	IssueResolution Issue = "resolution"
	IssueDecode     Issue = "decode"
	IssueError      Issue = "error"
)

type Severity string

const (
	SeverityNone       Severity = "none"
	SeverityBorderline Severity = "borderline"
	SeverityEgregious  Severity = "egregious"
)

type Verdict struct {
	Pass            bool
	Issue           Issue
	Severity        Severity
	OverrideAllowed bool
	BlurScore       float64
	Brightness      float64
}

const (
	minDimension  = 480
	workingMaxDim = 1024

	// Strided grid sampling keeps scoring cheap. The stride and margin are
	// part of the score definition: changing them changes every threshold.
	sampleStride = 3
	borderMargin = 2

	egregiousBlurFloor = 15.0
	standardBlurFloor  = 45.0
	lenientBlurFloor   = 30.0

	standardBrightnessMin = 0.15
	standardBrightnessMax = 0.95
	lenientBrightnessMin  = 0.12
	lenientBrightnessMax  = 0.97

	egregiousBrightnessMin = 0.05
	egregiousBrightnessMax = 0.98
)

// Check scores an encoded photo and renders a verdict. It never returns an
// error: undecodable input becomes a failing verdict so the caller can report
// it without crashing, and without proceeding to the vision call.
func Check(photo []byte, mode Mode) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("quality check panic recovered: %v", r)
			v = failVerdict(IssueError, SeverityEgregious, 0, 0)
		}
	}()

	// Bounds-only decode: cheap resolution gate before any pixel work.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(photo))
	if err != nil {
		log.Printf("quality decode config error: %v", err)
		return failVerdict(IssueDecode, SeverityEgregious, 0, 0)
	}
	if cfg.Width < minDimension || cfg.Height < minDimension {
		return failVerdict(IssueResolution, SeverityEgregious, 0, 0)
	}

	img, err := imaging.Decode(bytes.NewReader(photo), imaging.AutoOrientation(true))
	if err != nil {
		log.Printf("quality decode error: %v", err)
		return failVerdict(IssueDecode, SeverityEgregious, 0, 0)
	}
	b := img.Bounds()
	if b.Dx() > workingMaxDim || b.Dy() > workingMaxDim {
		img = imaging.Fit(img, workingMaxDim, workingMaxDim, imaging.Box)
	}

	brightness := meanLuma(img)
	if brightness < egregiousBrightnessMin {
		return failVerdict(IssueDark, SeverityEgregious, 0, brightness)
	}
	if brightness > egregiousBrightnessMax {
		return failVerdict(IssueBright, SeverityEgregious, 0, brightness)
	}

	blur := blurScore(img)
	if blur < egregiousBlurFloor {
		return failVerdict(IssueBlur, SeverityEgregious, blur, brightness)
	}

	blurFloor := standardBlurFloor
	brightMin, brightMax := standardBrightnessMin, standardBrightnessMax
	if mode == ModeLenient {
		blurFloor = lenientBlurFloor
		brightMin, brightMax = lenientBrightnessMin, lenientBrightnessMax
	}

	blurOK := blur >= blurFloor
	brightOK := brightness >= brightMin && brightness <= brightMax
	if !blurOK || !brightOK {
		// Blur takes priority over brightness in the reported issue.
		issue := IssueBlur
		if blurOK {
			issue = IssueDark
			if brightness > brightMax {
				issue = IssueBright
			}
		}
		return Verdict{
			Pass:            false,
			Issue:           issue,
			Severity:        SeverityBorderline,
			OverrideAllowed: true,
			BlurScore:       blur,
			Brightness:      brightness,
		}
	}

	return Verdict{
		Pass:       true,
		Issue:      IssueNone,
		Severity:   SeverityNone,
		BlurScore:  blur,
		Brightness: brightness,
	}
}

func failVerdict(issue Issue, sev Severity, blur, brightness float64) Verdict {
	return Verdict{
		Pass:       false,
		Issue:      issue,
		Severity:   sev,
		BlurScore:  blur,
		Brightness: brightness,
	}
}

// meanLuma samples a regular pixel grid and returns the mean Rec.601 luma
// normalized to [0, 1].
func meanLuma(img image.Image) float64 {
	b := img.Bounds()
	var sum float64
	var n int
	for y := b.Min.Y; y < b.Max.Y; y += sampleStride {
		for x := b.Min.X; x < b.Max.X; x += sampleStride {
			r, g, bl, _ := img.At(x, y).RGBA()
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
			sum += luma
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / 255.0
}

// blurScore is the root mean square of the 4-neighbor discrete Laplacian
// over grayscale grid samples, skipping a border margin. Sharp detail yields
// large second derivatives; a defocused photo yields values near zero.
func blurScore(img image.Image) float64 {
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	var sumSq float64
	var n int
	for y := borderMargin; y < h-borderMargin; y += sampleStride {
		for x := borderMargin; x < w-borderMargin; x += sampleStride {
			c := float64(gray.NRGBAAt(x, y).R)
			l := float64(gray.NRGBAAt(x-1, y).R)
			r := float64(gray.NRGBAAt(x+1, y).R)
			t := float64(gray.NRGBAAt(x, y-1).R)
			bt := float64(gray.NRGBAAt(x, y+1).R)
			lap := 4*c - (l + r + t + bt)
			sumSq += lap * lap
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sumSq / float64(n))
}

// String implements a compact form for log lines.
func (v Verdict) String() string {
	return fmt.Sprintf("pass=%t issue=%s severity=%s blur=%.1f brightness=%.3f",
		v.Pass, v.Issue, v.Severity, v.BlurScore, v.Brightness)
}
