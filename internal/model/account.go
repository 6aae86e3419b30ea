package model

import (
	"math"
	"time"
)

// InitialCredits is the allowance every new account starts with
const InitialCredits = 10

// MaxCredits caps a balance and therefore any single refill.
// It is the largest value the Postgres INTEGER column holds.
const MaxCredits = math.MaxInt32

// Account is a registered identity with its credential hash and credit balance
type Account struct {
	Username     string    // unique, immutable after creation
	PasswordHash string    // bcrypt hash, never returned to clients
	Credits      int       // 0..MaxCredits
	CreatedAt    time.Time
}
