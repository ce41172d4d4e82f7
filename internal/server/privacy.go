package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
)

// ipHasher turns client addresses into stable, non-reversible ids for the
// lifetime of the process. Raw addresses are never logged or stored.
type ipHasher struct {
	salt string
}

func newIPHasher() *ipHasher {
	return &ipHasher{salt: generateSalt()}
}

func generateSalt() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal("Failed to generate hashing salt:", err)
	}
	return hex.EncodeToString(b)
}

func (h *ipHasher) hash(ip string) string {
	sum := sha256.Sum256([]byte(ip + h.salt))
	return hex.EncodeToString(sum[:])[:16]
}
