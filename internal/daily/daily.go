// internal/daily/daily.go
//
// Deterministic seeding for the Daily mode.
// Every player who starts a daily run on the same UTC date gets the same
// random stream, so the opening layout is shared for the day.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed derives two PCG seed words from HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) (uint64, uint64) {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])
}

// Rand returns the shared generator for the given date.
func Rand(date time.Time, salt string) *rand.Rand {
	s1, s2 := Seed(date, salt)
	return rand.New(rand.NewPCG(s1, s2))
}
