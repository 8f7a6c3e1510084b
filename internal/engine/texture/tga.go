package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeGray         = 3  // Uncompressed grayscale
	TGATypeRLE          = 10 // RLE compressed true-color
	TGATypeRLEGray      = 11 // RLE compressed grayscale
)

// TGA decoding errors.
var (
	ErrTruncatedTGA   = errors.New("TGA data truncated")
	ErrUnsupportedTGA = errors.New("unsupported TGA")
)

const tgaHeaderSize = 18

// Image descriptor bits.
const (
	tgaRightToLeft = 0x10
	tgaTopToBottom = 0x20
)

// DecodeTGA decodes a TGA image.
// Supports true-color (24/32 bit) and grayscale (8 bit) images, both
// uncompressed and RLE compressed. Either origin corner is honored.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, ErrTruncatedTGA
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped image", ErrUnsupportedTGA)
	}
	switch imageType {
	case TGATypeUncompressed, TGATypeRLE:
		if bpp != 24 && bpp != 32 {
			return nil, fmt.Errorf("%w: true-color bit depth %d", ErrUnsupportedTGA, bpp)
		}
	case TGATypeGray, TGATypeRLEGray:
		if bpp != 8 {
			return nil, fmt.Errorf("%w: grayscale bit depth %d", ErrUnsupportedTGA, bpp)
		}
	default:
		return nil, fmt.Errorf("%w: image type %d", ErrUnsupportedTGA, imageType)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrUnsupportedTGA, width, height)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, ErrTruncatedTGA
	}

	bytesPerPixel := bpp / 8
	var pixels []byte
	if imageType == TGATypeRLE || imageType == TGATypeRLEGray {
		var err error
		pixels, err = decodeTGARLE(data[offset:], width*height, bytesPerPixel)
		if err != nil {
			return nil, err
		}
	} else {
		size := width * height * bytesPerPixel
		if len(data)-offset < size {
			return nil, ErrTruncatedTGA
		}
		pixels = data[offset : offset+size]
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	topToBottom := descriptor&tgaTopToBottom != 0
	rightToLeft := descriptor&tgaRightToLeft != 0

	for y := 0; y < height; y++ {
		destY := y
		if !topToBottom {
			destY = height - 1 - y
		}
		for x := 0; x < width; x++ {
			destX := x
			if rightToLeft {
				destX = width - 1 - x
			}
			i := (y*width + x) * bytesPerPixel
			img.SetRGBA(destX, destY, tgaPixel(pixels[i:i+bytesPerPixel]))
		}
	}

	return img, nil
}

// tgaPixel converts one stored pixel (BGR, BGRA or gray) to RGBA.
func tgaPixel(p []byte) color.RGBA {
	switch len(p) {
	case 1:
		return color.RGBA{R: p[0], G: p[0], B: p[0], A: 255}
	case 3:
		return color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	}
	return color.RGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
}

// decodeTGARLE expands RLE packets into count stored pixels.
func decodeTGARLE(data []byte, count, bytesPerPixel int) ([]byte, error) {
	total := count * bytesPerPixel
	out := make([]byte, 0, total)
	dataIdx := 0

	for len(out) < total {
		if dataIdx >= len(data) {
			return nil, ErrTruncatedTGA
		}
		packet := data[dataIdx]
		dataIdx++
		n := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// RLE packet - repeat single pixel
			if dataIdx+bytesPerPixel > len(data) {
				return nil, ErrTruncatedTGA
			}
			px := data[dataIdx : dataIdx+bytesPerPixel]
			dataIdx += bytesPerPixel
			for i := 0; i < n && len(out) < total; i++ {
				out = append(out, px...)
			}
		} else {
			// Raw packet - copy n pixels
			size := n * bytesPerPixel
			if dataIdx+size > len(data) {
				return nil, ErrTruncatedTGA
			}
			room := total - len(out)
			if size > room {
				size = room
			}
			out = append(out, data[dataIdx:dataIdx+size]...)
			dataIdx += n * bytesPerPixel
		}
	}

	return out, nil
}
