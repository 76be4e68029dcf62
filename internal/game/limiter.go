package game

import "time"

// Limiter paces a loop to a fixed rate per second.
type Limiter struct {
	// Rate is the target iterations per second; 0 disables limiting.
	Rate int
	next time.Time
}

func NewLimiter(rate int) *Limiter {
	return &Limiter{Rate: rate}
}

// Wait blocks until the next iteration is due. It sleeps most of the gap and
// spins the last few microseconds.
func (l *Limiter) Wait() {
	if l.Rate <= 0 {
		l.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(l.Rate)

	if l.next.IsZero() {
		l.next = time.Now().Add(target)
	} else {
		l.next = l.next.Add(target)
	}

	for {
		remaining := time.Until(l.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		if time.Until(l.next) <= 0 {
			break
		}
	}

	// resync after a hitch instead of bursting to catch up
	if late := -time.Until(l.next); late > target {
		l.next = time.Now().Add(target)
	}
}
