package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"time"

	// Decoders for the accepted upload formats.
	_ "image/gif"
	_ "image/png"

	"github.com/heyjunin/maaw/pkg/errors"
)

// ImageInfo describes an uploaded image without decoding its pixels.
type ImageInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// DetectImageInfo reads the dimensions and format of an encoded image.
func DetectImageInfo(data []byte) (*ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, errors.ValidationError,
			errors.GetErrorMessage(errors.ErrUnsupportedImage), errors.ErrUnsupportedImage)
	}
	return &ImageInfo{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// ConvertToJPEG decodes a JPEG, PNG or GIF image and re-encodes it as an
// opaque JPEG of the same dimensions.
func ConvertToJPEG(data []byte, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WrapCode(err, errors.ProcessingError, errors.ErrImageDecode)
	}

	// Flatten transparency onto white like an RGB conversion does.
	bounds := src.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(rgba, bounds, src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: quality}); err != nil {
		return nil, errors.WrapCode(err, errors.ProcessingError, errors.ErrImageEncode)
	}
	return buf.Bytes(), nil
}

// ImageFilename names the index-th (1-based) image of a batch like a phone
// camera does.
func ImageFilename(now time.Time, index int) string {
	return fmt.Sprintf("IMG_%s_%04d.jpg", now.Format("20060102_150405"), index)
}
