package timeline

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInterval = errors.New("scene interval is empty")
	ErrUnordered     = errors.New("scenes are not ordered by start")
	ErrOverlap       = errors.New("scene intervals overlap")
)

// Validate checks that every interval is non-empty and that scenes are
// ordered by start without overlapping.
func (t *Timeline) Validate() error {
	for i, s := range t.Scenes {
		if s.End <= s.Start {
			return fmt.Errorf("scene %q [%d,%d): %w", s.ID, s.Start, s.End, ErrEmptyInterval)
		}
		if i == 0 {
			continue
		}
		prev := t.Scenes[i-1]
		if s.Start < prev.Start {
			return fmt.Errorf("scene %q starts at %d before %q at %d: %w", s.ID, s.Start, prev.ID, prev.Start, ErrUnordered)
		}
		if s.Start < prev.End {
			return fmt.Errorf("scenes %q [%d,%d) and %q [%d,%d): %w",
				prev.ID, prev.Start, prev.End, s.ID, s.Start, s.End, ErrOverlap)
		}
	}
	return nil
}

// New returns a validated timeline over scenes.
func New(scenes []Scene) (*Timeline, error) {
	t := &Timeline{Version: "1.0", Scenes: scenes}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Unchecked returns a timeline without validation. Overlapping scenes are
// resolved by list order: the later scene wins.
func Unchecked(scenes []Scene) *Timeline {
	return &Timeline{Version: "1.0", Scenes: scenes}
}
