package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrUnsupportedProofType is returned for MIME types outside the allowlist.
// Callers must reject unknown types before a key is ever built.
var ErrUnsupportedProofType = errors.New("unsupported payment proof content type")

// proofExtensions is the MIME allowlist for payment proofs. Extensions come
// from this map, never from a client-supplied filename.
var proofExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

const proofKeyPrefix = "payment-proofs"

// BuildProofKey generates a fresh object key for a user's payment proof:
// payment-proofs/<userID>/<unixnano>_<rand><ext>. The timestamp plus random
// suffix makes every upload a new object, which is what invalidates stale
// signed URLs and stale verifications.
func BuildProofKey(userID, contentType string) (string, error) {
	ext, ok := proofExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedProofType
	}
	return fmt.Sprintf("%s/%s/%d_%s%s",
		proofKeyPrefix, userID, time.Now().UnixNano(), randomSuffix(8), ext), nil
}

// ProofKeyPrefix returns the key prefix every proof object of a user lives
// under. Used to verify a client-reported key belongs to its owner.
func ProofKeyPrefix(userID string) string {
	return fmt.Sprintf("%s/%s/", proofKeyPrefix, userID)
}

// AllowedProofType reports whether the content type is on the allowlist.
func AllowedProofType(contentType string) bool {
	_, ok := proofExtensions[contentType]
	return ok
}

func randomSuffix(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)[:length]
}
