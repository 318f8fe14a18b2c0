package assist

import (
	"errors"
	"fmt"
	"sync"
)

// ErrViewOutOfRange is returned when selecting a view index that does not exist.
var ErrViewOutOfRange = errors.New("view index out of range")

// Selection is the user's current choice in each selector. Empty means unset.
type Selection struct {
	SourceCourse      string `json:"sourceCourse"`
	TargetInstitution string `json:"targetInstitution"`
}

// Value returns the selected key for view.
func (s Selection) Value(view View) string {
	if view == ViewByTarget {
		return s.TargetInstitution
	}
	return s.SourceCourse
}

// With returns a copy of s with the key for view set to value.
func (s Selection) With(view View, value string) Selection {
	if view == ViewByTarget {
		s.TargetInstitution = value
	} else {
		s.SourceCourse = value
	}
	return s
}

// ViewSelector tracks the active tab. It starts on the first view.
type ViewSelector struct {
	mu       sync.Mutex
	count    int
	active   int
	onChange func(int)
}

// NewViewSelector creates a selector over count views.
func NewViewSelector(count int, onChange func(int)) *ViewSelector {
	if count < 1 {
		count = 1
	}
	return &ViewSelector{count: count, onChange: onChange}
}

// Active returns the index of the active view.
func (v *ViewSelector) Active() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// Select activates view i and notifies the observer if it changed.
func (v *ViewSelector) Select(i int) error {
	v.mu.Lock()
	if i < 0 || i >= v.count {
		v.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrViewOutOfRange, i, v.count)
	}
	changed := v.active != i
	v.active = i
	notify := v.onChange
	v.mu.Unlock()
	if changed && notify != nil {
		notify(i)
	}
	return nil
}
