package redis

import "fmt"

// Key prefix for all account data
const keyPrefix = "textcompare"

// Hash fields of an account record
const (
	fieldPasswordHash = "password_hash"
	fieldCredits      = "credits"
	fieldCreatedAt    = "created_at"
)

// accountKey returns the Redis key for an account hash
func accountKey(username string) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, username)
}
