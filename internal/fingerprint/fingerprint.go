// Package fingerprint computes the content hash used for change detection.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
)

// Of returns the hex encoded md5 digest of payload.
func Of(payload []byte) string {
	sum := md5.Sum(payload)
	return hex.EncodeToString(sum[:])
}
