// Package grid decodes the bot's preview grid and cuts it into single images.
package grid

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	Rows = 2
	Cols = 2

	jpegQuality = 90
)

func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func DecodeBytes(data []byte) (image.Image, error) {
	return Decode(bytes.NewReader(data))
}

// Split cuts img into Rows*Cols equal tiles, row-major. Odd trailing pixels
// are dropped.
func Split(img image.Image) ([]image.Image, error) {
	bounds := img.Bounds()
	tileWidth := bounds.Dx() / Cols
	tileHeight := bounds.Dy() / Rows
	if tileWidth == 0 || tileHeight == 0 {
		return nil, fmt.Errorf("image %dx%d is too small to split", bounds.Dx(), bounds.Dy())
	}

	tiles := make([]image.Image, 0, Rows*Cols)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			left := bounds.Min.X + col*tileWidth
			upper := bounds.Min.Y + row*tileHeight
			rect := image.Rect(left, upper, left+tileWidth, upper+tileHeight)
			tiles = append(tiles, imaging.Crop(img, rect))
		}
	}

	return tiles, nil
}

func EncodeJPEG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
}

func JPEGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveJPEG writes img to filename, which must carry a .jpg extension.
func SaveJPEG(img image.Image, filename string) error {
	if !strings.EqualFold(filepath.Ext(filename), ".jpg") {
		return fmt.Errorf("can only save in .jpg format, got %q", filename)
	}
	return imaging.Save(img, filename, imaging.JPEGQuality(jpegQuality))
}
