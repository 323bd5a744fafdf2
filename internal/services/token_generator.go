package services

import "crypto/rand"

// tokenAlphabet holds 32 symbols, all safe in plain-text email and chosen to
// avoid the lookalikes 0/O and 1/I.
const tokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const tokenLength = 8

// GenerateToken returns a short code a recipient can type back from an
// email. 8 symbols out of 32 give 40 bits, which is plenty for a code that
// only has to hold up for the TTL window.
func GenerateToken() string {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand.Read is documented never to fail.
		panic(err)
	}
	for i := range b {
		b[i] = tokenAlphabet[int(b[i])&31]
	}
	return string(b)
}
