// Package clock is the time and id source for the terminal. Checkout
// commits go through it so tests can pin "now" and ids.
package clock

import (
	"time"

	"github.com/google/uuid"
)

type Clock interface {
	Now() time.Time
	NewID() string
}

type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }
func (System) NewID() string  { return uuid.NewString() }
