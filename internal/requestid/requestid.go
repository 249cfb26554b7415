// Package requestid mints opaque generation request ids.
package requestid

import "github.com/intrusive-memory/hablare/internal/randpool"

const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const Prefix = "req_"

// New returns a request id of the form "req_" followed by 24 random
// alphanumeric characters.
func New() string {
	var b [24]byte
	randpool.Fill(b[:])

	var sb [4 + 24]byte
	copy(sb[:4], Prefix)
	for i := 0; i < 24; i++ {
		sb[4+i] = chars[b[i]%byte(len(chars))]
	}

	return string(sb[:])
}
