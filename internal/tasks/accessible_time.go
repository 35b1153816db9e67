package tasks

import (
	"fmt"
	"strings"
	"time"
)

// AccessibleTime is the window during which a task or course accepts
// students. Descriptor forms: absent or true (always accessible), false
// (never), "start/end", "start/", "/end" or "start" with dates in
// "2006-01-02 15:04:05" (seconds and time optional).
type AccessibleTime struct {
	never bool
	start time.Time // zero means no lower bound
	end   time.Time // zero means no upper bound
}

var accessibleLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseAccessibleTime builds an AccessibleTime from its descriptor value.
func ParseAccessibleTime(value any) (AccessibleTime, error) {
	switch v := value.(type) {
	case nil:
		return AccessibleTime{}, nil
	case bool:
		return AccessibleTime{never: !v}, nil
	case string:
		if v == "" {
			return AccessibleTime{}, nil
		}
		var at AccessibleTime
		var err error
		if !strings.Contains(v, "/") {
			at.start, err = parseAccessibleDate(v)
			return at, err
		}
		parts := strings.SplitN(v, "/", 2)
		if s := strings.TrimSpace(parts[0]); s != "" {
			if at.start, err = parseAccessibleDate(s); err != nil {
				return AccessibleTime{}, err
			}
		}
		if s := strings.TrimSpace(parts[1]); s != "" {
			if at.end, err = parseAccessibleDate(s); err != nil {
				return AccessibleTime{}, err
			}
		}
		return at, nil
	default:
		return AccessibleTime{}, fmt.Errorf("invalid accessible value %v", value)
	}
}

func parseAccessibleDate(s string) (time.Time, error) {
	for _, layout := range accessibleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid accessible date %q", s)
}

func (a AccessibleTime) afterStart(now time.Time) bool {
	if a.never {
		return false
	}
	return a.start.IsZero() || !now.Before(a.start)
}

func (a AccessibleTime) beforeEnd(now time.Time) bool {
	if a.never {
		return false
	}
	return a.end.IsZero() || now.Before(a.end)
}

// AfterStart reports whether the window has started.
func (a AccessibleTime) AfterStart() bool { return a.afterStart(time.Now()) }

// BeforeEnd reports whether the window has not closed yet.
func (a AccessibleTime) BeforeEnd() bool { return a.beforeEnd(time.Now()) }

// IsOpen reports whether the window is currently open.
func (a AccessibleTime) IsOpen() bool {
	now := time.Now()
	return a.afterStart(now) && a.beforeEnd(now)
}

func (a AccessibleTime) IsAlwaysAccessible() bool {
	return !a.never && a.start.IsZero() && a.end.IsZero()
}

func (a AccessibleTime) IsNeverAccessible() bool { return a.never }

// EndDate returns the window's end, valid only when the second return is
// true.
func (a AccessibleTime) EndDate() (time.Time, bool) {
	return a.end, !a.end.IsZero()
}

// Deadline renders the window's deadline for display.
func (a AccessibleTime) Deadline() string {
	switch {
	case a.IsAlwaysAccessible():
		return "No deadline"
	case a.IsNeverAccessible():
		return "It's too late"
	case a.end.IsZero():
		return "No deadline"
	default:
		return a.end.Format("02/01/2006 15:04:05")
	}
}
