package session

import (
	"crypto/rand"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
const idLength = 5

// generateID returns a uniformly sampled 5-character token over
// [0-9a-z]. The manager retries this on collision against the active
// registry.
func generateID() string {
	// Bytes at or above limit are discarded so every symbol of the
	// alphabet is equally likely.
	limit := 256 - 256%len(idAlphabet)
	buf := make([]byte, idLength)
	out := make([]byte, 0, idLength)
	for len(out) < idLength {
		if _, err := rand.Read(buf); err != nil {
			panic("session: crypto/rand unavailable: " + err.Error())
		}
		for _, b := range buf {
			if int(b) < limit && len(out) < idLength {
				out = append(out, idAlphabet[int(b)%len(idAlphabet)])
			}
		}
	}
	return string(out)
}
