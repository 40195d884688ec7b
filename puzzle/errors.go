package puzzle

import (
	"errors"
	"fmt"
)

// ErrInvalidGrid is returned when a board is requested with fewer than one row or column.
var ErrInvalidGrid = errors.New("puzzle: grid must have at least one row and one column")

// ImageLoadError reports that a locator could not be fetched or decoded.
type ImageLoadError struct {
	Locator string
	Err     error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("puzzle: load image %q: %v", e.Locator, e.Err)
}

func (e *ImageLoadError) Unwrap() error {
	return e.Err
}

func asImageLoadError(locator string, err error) *ImageLoadError {
	var le *ImageLoadError
	if errors.As(err, &le) {
		return le
	}
	return &ImageLoadError{Locator: locator, Err: err}
}
