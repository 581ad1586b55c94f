package utils

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/hex"
	"strings"
)

var (
	readRandom = rand.Read

	// RFC 4648 alphabet without padding; upper case only so codes survive
	// case-insensitive matching unchanged.
	base32Enc = base32.StdEncoding.WithPadding(base32.NoPadding)
)

// RandomBase32 returns n characters drawn from the base32 alphabet using crypto/rand.
func RandomBase32(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	buf := make([]byte, (n*5+7)/8)
	if _, err := readRandom(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(base32Enc.EncodeToString(buf))[:n], nil
}

// RandomHex returns a hex string encoding nBytes random bytes.
func RandomHex(nBytes int) (string, error) {
	buf := make([]byte, nBytes)
	if _, err := readRandom(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
