package geometry

import "fmt"

// PreviewSize computes the dimensions the on-screen surface is laid out to.
// The width is kept from the texture offered by the host; the height is
// derived from the preview's aspect ratio. When the display is turned a
// quarter (90 or 270) the sensor is perpendicular to it, so the preview
// terms are swapped.
//
// Integer arithmetic truncates, e.g. 1080 wide with a 640x480 preview at
// rotation 0 gives 1080x1440.
func PreviewSize(texture, preview Size, r Rotation) (Size, error) {
	if !texture.Valid() {
		return Size{}, fmt.Errorf("%w: texture %v", ErrInvalidDimensions, texture)
	}
	if !preview.Valid() {
		return Size{}, fmt.Errorf("%w: preview %v", ErrInvalidDimensions, preview)
	}
	if !r.Valid() {
		return Size{}, fmt.Errorf("%w: %d", ErrInvalidRotation, int(r))
	}

	newWidth := texture.Width
	newHeight := texture.Width * preview.Width / preview.Height
	if r.Landscape() {
		newHeight = texture.Width * preview.Height / preview.Width
	}
	if newHeight <= 0 {
		return Size{}, fmt.Errorf("%w: derived surface %dx%d", ErrInvalidDimensions, newWidth, newHeight)
	}
	return Size{Width: newWidth, Height: newHeight}, nil
}
