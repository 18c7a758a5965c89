// Package carousel tracks the horizontal scroll position of a movie row.
package carousel

import "fmt"

// Direction is a single carousel step
type Direction int

const (
	Backward Direction = iota
	Forward
)

// ClampPolicy decides how far forward a carousel may scroll
type ClampPolicy int

const (
	// ClampFill stops once the last item is fully visible at the trailing edge
	ClampFill ClampPolicy = iota
	// ClampOverscroll stops once the last item is the first visible one
	ClampOverscroll
)

// ParseClampPolicy parses "fill" or "overscroll"; "" means fill
func ParseClampPolicy(s string) (ClampPolicy, error) {
	switch s {
	case "", "fill":
		return ClampFill, nil
	case "overscroll":
		return ClampOverscroll, nil
	default:
		return ClampFill, fmt.Errorf("unknown clamp policy %q", s)
	}
}

func (p ClampPolicy) String() string {
	if p == ClampOverscroll {
		return "overscroll"
	}
	return "fill"
}

// State is the scroll state of one row. Offset is measured in item widths
// and always lies in [0, MaxSteps()].
type State struct {
	Offset       int
	StepWidth    int
	ItemCount    int
	VisibleCount int
	Policy       ClampPolicy
}

// New creates a carousel at offset 0 for a viewport of the given width
func New(stepWidth, itemCount, viewportWidth int, policy ClampPolicy) *State {
	if stepWidth <= 0 {
		stepWidth = 1
	}
	s := &State{StepWidth: stepWidth, ItemCount: itemCount, Policy: policy}
	s.VisibleCount = s.visibleFor(viewportWidth)
	return s
}

func (s *State) visibleFor(viewportWidth int) int {
	v := viewportWidth / s.StepWidth
	if v < 1 {
		v = 1
	}
	return v
}

// MaxSteps is the largest reachable offset
func (s *State) MaxSteps() int {
	var m int
	switch s.Policy {
	case ClampOverscroll:
		m = s.ItemCount - 1
	default:
		m = s.ItemCount - s.VisibleCount
	}
	if m < 0 {
		return 0
	}
	return m
}

// Advance moves one step in dir; stepping past either end is a no-op.
// It reports whether the offset changed.
func (s *State) Advance(dir Direction) bool {
	switch dir {
	case Forward:
		if s.Offset < s.MaxSteps() {
			s.Offset++
			return true
		}
	case Backward:
		if s.Offset > 0 {
			s.Offset--
			return true
		}
	}
	return false
}

// Resize recomputes the visible count for a new viewport width. If the
// visible count or the reachable range changed, the offset resets to 0.
func (s *State) Resize(viewportWidth int) {
	prevVisible, prevMax := s.VisibleCount, s.MaxSteps()
	s.VisibleCount = s.visibleFor(viewportWidth)
	if s.VisibleCount != prevVisible || s.MaxSteps() != prevMax {
		s.Offset = 0
	}
}

// SetItemCount updates the number of items, pulling the offset back into range
func (s *State) SetItemCount(n int) {
	if n < 0 {
		n = 0
	}
	s.ItemCount = n
	if s.Offset > s.MaxSteps() {
		s.Offset = s.MaxSteps()
	}
}

// CanStepBackward reports whether the "step backward" control is shown
func (s *State) CanStepBackward() bool {
	return s.Offset > 0
}

// CanStepForward reports whether the "step forward" control is shown
func (s *State) CanStepForward() bool {
	return s.Offset < s.MaxSteps()
}

// TranslateX is the horizontal shift of the row in pixels
func (s *State) TranslateX() int {
	return -s.StepWidth * s.Offset
}

// Window returns the half-open index range of items currently visible
func (s *State) Window() (start, end int) {
	start = s.Offset
	end = s.Offset + s.VisibleCount
	if end > s.ItemCount {
		end = s.ItemCount
	}
	if start > end {
		start = end
	}
	return start, end
}
