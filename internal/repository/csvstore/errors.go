package csvstore

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// ErrCorruptSource indicates a persisted table exists but cannot be read back.
var ErrCorruptSource = errors.New("corrupt ledger source")

// CorruptSourceError reports which table failed to load and where.
type CorruptSourceError struct {
	Kind   models.Kind
	Source string
	Err    error
}

func (e *CorruptSourceError) Error() string {
	return fmt.Sprintf("%s table at %s is corrupt: %v", e.Kind, e.Source, e.Err)
}

func (e *CorruptSourceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCorruptSource) match.
func (e *CorruptSourceError) Is(target error) bool {
	return target == ErrCorruptSource
}
