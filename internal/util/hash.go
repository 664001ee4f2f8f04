package util

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gin-gonic/gin"
)

// HashIP hashes a client IP with SHA-256 before it touches storage. Raw IPs
// are never persisted.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// ClientIPHash resolves the request's client IP (honoring proxy headers via
// gin) and returns its hash.
func ClientIPHash(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "127.0.0.1"
	}
	return HashIP(ip)
}
