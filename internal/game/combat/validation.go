package combat

import (
	"errors"
	"fmt"

	"github.com/udisondev/arena/internal/model"
)

var (
	// ErrInvalidRecord is returned when a stat record breaks the resolver contract.
	ErrInvalidRecord = errors.New("invalid stat record")
	// ErrNilRandom is returned when no random source is supplied.
	ErrNilRandom = errors.New("nil random source")
)

// ValidateRecord checks a record before it enters the turn loop.
// Besides model validation the resolver needs positive HP: HP
// percentages are computed against it when the turn cap is hit.
func ValidateRecord(rec *model.DetailedStatRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if rec.Derived.HP.Final <= 0 {
		return fmt.Errorf("%w: %q has no HP", ErrInvalidRecord, rec.Name)
	}
	return nil
}
