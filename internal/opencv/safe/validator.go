package safe

import (
	"github.com/pkg/errors"
)

func ValidateMatForOperation(mat *Mat, operation string) error {
	if mat == nil {
		return errors.Errorf("Mat is nil for operation: %s", operation)
	}

	if !mat.IsValid() {
		return errors.Errorf("Mat is invalid for operation: %s", operation)
	}

	if mat.Empty() {
		return errors.Errorf("Mat is empty for operation: %s", operation)
	}

	if mat.Rows() <= 0 || mat.Cols() <= 0 {
		return errors.Errorf("Mat has invalid dimensions %dx%d for operation: %s",
			mat.Cols(), mat.Rows(), operation)
	}

	return nil
}

func ValidateDimensions(width, height int, operation string) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid dimensions %dx%d for operation: %s", width, height, operation)
	}

	if width > 32768 || height > 32768 {
		return errors.Errorf("dimensions %dx%d exceed maximum size for operation: %s", width, height, operation)
	}

	return nil
}

func ValidateChannel(channel, channels int, operation string) error {
	if channel < 0 || channel >= channels {
		return errors.Errorf("channel %d out of bounds [0, %d) for operation: %s", channel, channels, operation)
	}

	return nil
}
