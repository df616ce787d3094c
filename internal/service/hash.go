package service

import (
	"strconv"
	"unicode/utf16"
)

// simulatedHash derives the stored password verifier. It is a 32-bit rolling
// hash over UTF-16 code units and is not a security measure.
func simulatedHash(secret string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(secret)) {
		h = h*31 + int32(c)
	}
	return "simulated_hash_" + strconv.FormatInt(int64(h), 10)
}
