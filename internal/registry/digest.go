package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	apperrors "github.com/iamdantz/gemini-templates/internal/errors"
)

// Digest returns the lowercase hex SHA-256 of data
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verify checks data against the descriptor's declared digest.
// Descriptors without a digest always verify.
func (f FileDescriptor) Verify(data []byte) error {
	if !f.HasHash() {
		return nil
	}
	actual := Digest(data)
	if !strings.EqualFold(actual, f.Hash) {
		return &apperrors.HashMismatchError{File: f.Name, Expected: f.Hash, Actual: actual}
	}
	return nil
}
