// Package randpool is a pooled userspace CSPRNG. Request ids are minted
// on every generation call; pooling keeps that off the crypto/rand
// syscall path.
package randpool

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"
	"runtime"
	"sync"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/sys/cpu"
)

// Streams are retired after this much output and reseeded from the
// system source.
const rekeyAfter = 1 << 30

type stream struct {
	c    cipher.Stream
	used uint64
}

var useAES = (runtime.GOARCH == "arm64" && cpu.ARM64.HasAES) ||
	(runtime.GOARCH == "amd64" && cpu.X86.HasAES) ||
	(runtime.GOOS == "darwin" && (runtime.GOARCH == "arm64" || runtime.GOARCH == "amd64"))

var pool = sync.Pool{
	New: func() interface{} {
		if useAES {
			var seed [16 + 32]byte
			mustSysRand(seed[:])
			block, err := aes.NewCipher(seed[16:])
			if err != nil {
				panic(err) // should never happen
			}
			return &stream{c: cipher.NewCTR(block, seed[:16])}
		}
		var seed [12 + 32]byte
		mustSysRand(seed[:])
		c, err := chacha20.NewUnauthenticatedCipher(seed[12:], seed[:12])
		if err != nil {
			panic(err) // should never happen
		}
		return &stream{c: c}
	},
}

func mustSysRand(b []byte) {
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err)
	}
}

// Fill overwrites dst with random bytes.
func Fill(dst []byte) {
	s := pool.Get().(*stream)
	for i := range dst {
		dst[i] = 0
	}
	s.c.XORKeyStream(dst, dst)
	s.used += uint64(len(dst))
	if s.used < rekeyAfter {
		pool.Put(s)
	}
}
