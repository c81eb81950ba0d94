package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// RunID derives a stable run identifier from the PR number, round, and head
// commit OID. The same head at the same round always yields the same id, so
// re-invocations are idempotent. When no head OID is available a random id
// is generated instead.
func RunID(prNumber, round int, headOid string) string {
	if headOid == "" {
		return uuid.NewString()[:12]
	}
	sum := sha1.Sum(fmt.Appendf(nil, "%d:%d:%s", prNumber, round, headOid))
	return hex.EncodeToString(sum[:])[:12]
}
