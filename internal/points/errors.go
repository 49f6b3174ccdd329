package points

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumns is matched by every *MissingColumnsError.
	ErrMissingColumns = errors.New("missing columns")
	// ErrNonFiniteCoordinate rejects inf and NaN coordinates.
	ErrNonFiniteCoordinate = errors.New("non-finite coordinate")
)

// MissingColumnsError names the required columns absent from a table.
type MissingColumnsError struct {
	Columns []string // sorted
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing columns: %v", e.Columns)
}

// Is makes errors.Is(err, ErrMissingColumns) hold.
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}
