// Package identity assigns content-derived stable identifiers to documents
// and reference targets. The mapping is a pure function: the same key always
// yields the same identifier across runs and across files.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// DocumentID returns the identifier for a document, derived from its vault
// path and title. Path disambiguates two documents sharing a title; title
// keeps the identifier tied to the document's content.
func DocumentID(path, title string) string {
	return sum(path + ":" + title)
}

// TargetID returns the identifier for a reference target, derived from the
// target title alone (exact, case-sensitive match on the trimmed title).
// Case or whitespace variants of the same intended target produce distinct
// identifiers; that is a deliberate precision tradeoff.
func TargetID(title string) string {
	return sum(":" + title)
}

func sum(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}
