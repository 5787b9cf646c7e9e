package document

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Fingerprint returns the hex MD5 digest of section content. Line endings
// are normalized first so the same document produces the same fingerprints
// on every platform. MD5 is used as a change fingerprint, not a security
// boundary.
func Fingerprint(content string) string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
