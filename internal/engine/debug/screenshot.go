// Package debug provides render snapshots and diagnostic overlays.
package debug

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned for file extensions SaveImage cannot write.
var ErrUnknownFormat = errors.New("unknown image format")

// SaveImage writes img to path. The encoder is chosen by extension:
// .png, .jpg/.jpeg, .gif, .bmp and .tif/.tiff are supported.
func SaveImage(img image.Image, path string) error {
	encode, err := encoderFor(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	if err := encode(bw, img); err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Ext(path), err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

type encoder func(w *bufio.Writer, img image.Image) error

func encoderFor(path string) (encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return func(w *bufio.Writer, img image.Image) error { return png.Encode(w, img) }, nil
	case ".jpg", ".jpeg":
		return func(w *bufio.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
		}, nil
	case ".gif":
		return func(w *bufio.Writer, img image.Image) error { return gif.Encode(w, img, nil) }, nil
	case ".bmp":
		return func(w *bufio.Writer, img image.Image) error { return bmp.Encode(w, img) }, nil
	case ".tif", ".tiff":
		return func(w *bufio.Writer, img image.Image) error { return tiff.Encode(w, img, nil) }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// ScreenshotCapture names and writes timestamped snapshots.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	ext       string
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		ext:       ".png",
	}
}

// SetOutputDir sets the output directory for screenshots.
func (sc *ScreenshotCapture) SetOutputDir(dir string) {
	sc.outputDir = dir
}

// SetFormat sets the file extension used for new screenshots, e.g. ".bmp".
func (sc *ScreenshotCapture) SetFormat(ext string) error {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if _, err := encoderFor(ext); err != nil {
		return err
	}
	sc.ext = ext
	return nil
}

// CaptureFromImage writes img under a generated name and returns the path.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	filename := sc.GenerateFilename()
	if err := SaveImage(img, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// GenerateFilename generates a screenshot filename without saving.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s%s", sc.prefix, timestamp, sc.ext)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}
