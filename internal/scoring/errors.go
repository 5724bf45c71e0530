package scoring

import "github.com/pkg/errors"

var (
	// ErrInvalidInput is returned when a mark is outside its declared range.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyInput is returned when aggregating zero subjects.
	ErrEmptyInput = errors.New("empty input")
)

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}
