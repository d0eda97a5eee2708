package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ArgonHasher is the argon2-class PasswordHasher (spec §4.7). The hash is
// opaque to callers: it encodes its own salt and cost parameters so it
// can be verified without any external state.
type ArgonHasher struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// NewArgonHasher returns an ArgonHasher with conservative interactive-use
// defaults (time=1, memory=64MiB, threads=4), the parameters recommended
// by the Go argon2id documentation for interactive logins.
func NewArgonHasher() ArgonHasher {
	return ArgonHasher{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}
}

// Hash derives an argon2id hash and encodes it with its salt and
// parameters as a single opaque string.
func (h ArgonHasher) Hash(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := argon2.IDKey([]byte(password), salt, h.Time, h.Memory, h.Threads, h.KeyLen)

	encoded := fmt.Sprintf("argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		h.Memory, h.Time, h.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum))
	return encoded, nil
}

// Verify reports whether password matches the opaque hash in constant time.
func (h ArgonHasher) Verify(password, hash string) bool {
	parts := strings.Split(hash, "$")
	if len(parts) != 5 || parts[0] != "argon2id" {
		return false
	}
	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}
