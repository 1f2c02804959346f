// Package keys derives the storage keys used by the page stash. Cached page
// content lives under a fixed-length digest of the URL, while per-URL access
// counters live under the raw URL behind a "count:" prefix. The two
// namespaces can never collide: a digest is pure lowercase hex and a counter
// key always contains a colon.
package keys

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// counterPrefix namespaces per-URL access counters away from cached content.
const counterPrefix = "count:"

// Derive maps a URL to its cache key: the BLAKE3-256 digest of the URL bytes
// as a 64-character lowercase hex string. Deterministic, total over all
// strings.
func Derive(url string) string {
	sum := blake3.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Counter returns the counter key for a URL. The URL is kept verbatim so the
// counter remains inspectable in the store.
func Counter(url string) string {
	return counterPrefix + url
}
