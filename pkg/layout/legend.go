package layout

import (
	"github.com/google/uuid"

	"github.com/matzehuels/crossboard/pkg/errors"
)

// Measurer measures legend content. Measure returns the length of the
// content along the growth axis of side, in inches.
type Measurer interface {
	Measure(side Side) (float64, error)
}

// MeasureFunc adapts a function to [Measurer].
type MeasureFunc func(side Side) (float64, error)

func (f MeasureFunc) Measure(side Side) (float64, error) { return f(side) }

// Fixed is a [Measurer] that always reports the same length.
type Fixed float64

func (f Fixed) Measure(Side) (float64, error) { return float64(f), nil }

// legendSlot is a reserved legend position awaiting its measured size.
type legendSlot struct {
	name     string
	side     Side
	pad      float64
	size     float64
	resolved bool
	region   Region
}

func newLegendSlot(owner string, side Side, pad float64) (*legendSlot, error) {
	if _, err := ParseSide(string(side)); err != nil {
		return nil, err
	}
	if err := errors.ValidateSize("legend pad", pad); err != nil {
		return nil, err
	}
	return &legendSlot{
		name: owner + "-legend-" + uuid.NewString(),
		side: side,
		pad:  pad,
	}, nil
}

// length is the space the slot takes on its side.
func (s *legendSlot) length() float64 { return s.size + s.pad }

func (s *legendSlot) lengthOn(side Side) float64 {
	if s == nil || s.side != side {
		return 0
	}
	return s.length()
}

func (s *legendSlot) resolve(m Measurer) error {
	size, err := m.Measure(s.side)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLegendUnresolved, err, "measure legend")
	}
	if err := errors.ValidateSize("legend size", size); err != nil {
		return err
	}
	s.size = size
	s.resolved = true
	return nil
}

func (s *legendSlot) check(owner string) error {
	if s != nil && !s.resolved {
		return errors.New(errors.ErrCodeLegendUnresolved, "legend of %q has not been measured", owner)
	}
	return nil
}

func duplicateLegend(owner string) error {
	return errors.New(errors.ErrCodeDuplicateName, "layout %q already has a legend", owner)
}

func noLegend(owner string) error {
	return errors.New(errors.ErrCodeUnknownName, "layout %q has no legend", owner)
}

func unfrozen(owner string) error {
	return errors.New(errors.ErrCodeInvalidInput, "layout %q has not been frozen", owner)
}
