package dendrogram

import (
	"github.com/matzehuels/crossboard/pkg/errors"
)

// Orient is the side of the main panel a dendrogram is drawn on.
type Orient string

const (
	Top    Orient = "top"
	Bottom Orient = "bottom"
	Left   Orient = "left"
	Right  Orient = "right"
)

// ParseOrient validates an orientation name.
func ParseOrient(s string) (Orient, error) {
	switch o := Orient(s); o {
	case Top, Bottom, Left, Right:
		return o, nil
	}
	return "", errors.New(errors.ErrCodeInvalidSide, "invalid dendrogram orientation %q", s)
}

// Vertical reports whether leaves run top to bottom.
func (o Orient) Vertical() bool {
	return o == Left || o == Right
}

// project maps a point in tree space, u along the leaves and v along the
// height (both in [0, 1]), to panel space.
func (o Orient) project(u, v float64) (x, y float64) {
	switch o {
	case Bottom:
		return u, 1 - v
	case Left:
		return 1 - v, 1 - u
	case Right:
		return v, 1 - u
	}
	return u, v
}
