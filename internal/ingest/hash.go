package ingest

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"

	"trainsite/internal/domain/content"
)

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("trainsite"))

// NodeID derives a stable identifier from kind and slug so rebuilding the
// same content yields the same ids.
func NodeID(kind content.Kind, slug string) string {
	return uuid.NewSHA1(idNamespace, []byte(string(kind)+"/"+slug)).String()
}
