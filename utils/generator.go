package utils

import (
	"math/rand"
	"time"
)

// GenerateReferralCode draws a random code from the given alphabet. The
// default alphabet excludes 0/O/1/I so codes survive being read out loud.
func GenerateReferralCode(alphabet string, length int) string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[seededRand.Intn(len(alphabet))]
	}
	return string(b)
}
