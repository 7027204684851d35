package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string for account, session and notification ids.
// ULIDs sort by creation time, which keeps DynamoDB partition keys usable
// for chronological listing.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
