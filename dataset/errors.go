package dataset

import (
	"errors"
	"fmt"
)

var errEmpty = errors.New("empty value")

func fieldError(f Field, err error) error {
	return fmt.Errorf("%s: %w", f, err)
}
