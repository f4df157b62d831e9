package imageproxy

import (
	"bytes"
	"fmt"
	"image"

	// Register decoders for the formats the CDN serves.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ProbeDimensions decodes just the image header and returns the pixel
// dimensions. Feeds real aspect ratios to the layout engine so slots
// computed from estimates get corrected.
func ProbeDimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
