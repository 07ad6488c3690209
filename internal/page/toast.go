package page

import "time"

// DefaultToastTTL is how long a message stays up before dismissing itself.
const DefaultToastTTL = 5 * time.Second

// ToastKind selects the toast styling.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

func (k ToastKind) String() string {
	switch k {
	case ToastSuccess:
		return "success"
	case ToastError:
		return "error"
	default:
		return "info"
	}
}

// Toast is a single auto-dismissing status message. A newer message
// replaces the current one and restarts the timer.
type Toast struct {
	ttl     time.Duration
	kind    ToastKind
	text    string
	shownAt time.Time
	active  bool
}

// NewToast returns a toast that dismisses after ttl, or DefaultToastTTL when
// ttl is not positive.
func NewToast(ttl time.Duration) *Toast {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &Toast{ttl: ttl}
}

// Show displays text from now.
func (t *Toast) Show(kind ToastKind, text string, now time.Time) {
	t.kind, t.text, t.shownAt, t.active = kind, text, now, true
}

// Dismiss hides the toast immediately.
func (t *Toast) Dismiss() { t.active = false }

// Visible reports whether the toast is still up at now.
func (t *Toast) Visible(now time.Time) bool {
	if !t.active {
		return false
	}
	if now.Sub(t.shownAt) >= t.ttl {
		t.active = false
		return false
	}
	return true
}

// Text returns the current message.
func (t *Toast) Text() string { return t.text }

// Kind returns the current message kind.
func (t *Toast) Kind() ToastKind { return t.kind }
