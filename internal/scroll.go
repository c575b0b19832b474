package internal

// ScrollTracker decides whether a growing transcript view should follow
// the newest entry. It is not safe for concurrent use; the view that owns
// it drives it from a single goroutine.
type ScrollTracker struct {
	detached bool
	seen     int
	unseen   int
}

// NewScrollTracker starts at the bottom of an empty transcript
func NewScrollTracker() *ScrollTracker {
	return &ScrollTracker{}
}

// Grow records that the transcript now holds length entries. It returns
// true when the view should scroll to the newest entry.
func (s *ScrollTracker) Grow(length int) bool {
	added := length - s.seen
	if added <= 0 {
		return false
	}
	s.seen = length
	if s.detached {
		s.unseen += added
		return false
	}
	return true
}

// UserScrolled records a manual scroll. atBottom reports whether the view
// ended on the newest entry.
func (s *ScrollTracker) UserScrolled(atBottom bool) {
	if atBottom {
		s.detached = false
		s.unseen = 0
		return
	}
	s.detached = true
}

// JumpToLatest re-attaches the view to the bottom
func (s *ScrollTracker) JumpToLatest() {
	s.detached = false
	s.unseen = 0
}

// Following reports whether new entries scroll into view automatically
func (s *ScrollTracker) Following() bool {
	return !s.detached
}

// ShowJump reports whether the "jump to latest" affordance is visible
func (s *ScrollTracker) ShowJump() bool {
	return s.detached && s.unseen > 0
}

// Unseen returns the number of entries added since the user scrolled away
func (s *ScrollTracker) Unseen() int {
	return s.unseen
}
