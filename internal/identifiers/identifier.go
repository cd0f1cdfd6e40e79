// Package identifiers mints the permanent public identifier of an accepted
// paper: slop:<year>:<10 digits>, derived from the document id.
package identifiers

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pattern matches a well-formed public identifier.
var Pattern = regexp.MustCompile(`^slop:\d{4}:\d{10}$`)

const digitSpace = 10_000_000_000

// Identifier binds a public identifier to a document.
type Identifier struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"paperId"`
	PublicID   string    `json:"publicId"`
	Link       string    `json:"link"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Derive computes the public identifier for id minted at now. The digits are
// the first 8 bytes of SHA-256(id) as a big-endian integer, mod 10^10.
func Derive(id uuid.UUID, now time.Time) string {
	sum := sha256.Sum256([]byte(id.String()))
	n := binary.BigEndian.Uint64(sum[:8]) % digitSpace
	return fmt.Sprintf("slop:%04d:%010d", now.UTC().Year(), n)
}

// Normalize trims s and checks it against Pattern.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !Pattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPublicID, s)
	}
	return s, nil
}

// Resolve applies the assignment rules for binding publicID to documentID
// given the rows currently holding either value. It reports whether a new
// row must be inserted; an existing identical binding is a no-op.
func Resolve(byPublicID, byDocument *Identifier, documentID uuid.UUID, publicID string) (bool, error) {
	if byPublicID != nil {
		if byPublicID.DocumentID == documentID {
			return false, nil
		}
		return false, ErrAssignedToAnother
	}

	if byDocument != nil {
		if byDocument.PublicID == publicID {
			return false, nil
		}
		return false, ErrDifferentAssigned
	}

	return true, nil
}
