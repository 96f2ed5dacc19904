package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPeriodCount is returned when a consumption array does not
	// match the number of periods the tariff prices.
	ErrInvalidPeriodCount = errors.New("billing: consumption period count does not match tariff")
	// ErrInvalidConsumption is returned for negative or non-finite inputs.
	ErrInvalidConsumption = errors.New("billing: invalid consumption")
)

// PeriodCountError describes which array had the wrong length.
type PeriodCountError struct {
	TariffID string
	Field    string
	Expected int
	Actual   int
}

func (e *PeriodCountError) Error() string {
	return fmt.Sprintf("billing: tariff %s expects %d %s periods, got %d", e.TariffID, e.Expected, e.Field, e.Actual)
}

func (e *PeriodCountError) Is(target error) bool {
	return target == ErrInvalidPeriodCount
}
