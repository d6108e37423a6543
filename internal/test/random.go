package test

import "math/rand"

const secretAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns a random alphanumeric string with length in
// [minLen, maxLen]. Useful for secrets that must not collide across runs.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	buf := make([]byte, minLen+rand.Intn(maxLen-minLen+1))
	for i := range buf {
		buf[i] = secretAlphabet[rand.Intn(len(secretAlphabet))]
	}
	return string(buf)
}
