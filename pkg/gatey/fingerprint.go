// fingerprint.go generates stable hashes for grouping similar events.

package gatey

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fingerprintFrames bounds how many innermost frames participate in
// the fingerprint.
const fingerprintFrames = 3

// Fingerprint generates a hash for grouping similar events. For
// exception events it is based on the exception class and the function
// names of the innermost traceback frames; for message events on the
// level and message. Variable data (event IDs, timestamps, line
// numbers, file paths) is ignored so recurring failures group together.
func Fingerprint(event Event) string {
	parts := []string{string(event.Level)}
	if event.Exception != nil {
		parts = append(parts, event.Exception.Class)
		for i, frame := range event.Exception.Traceback {
			if i >= fingerprintFrames {
				break
			}
			parts = append(parts, frame.Function)
		}
	} else {
		parts = append(parts, event.Message)
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:16])
}
