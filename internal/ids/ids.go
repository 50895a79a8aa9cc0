// Package ids implements coordinate quantization and string-to-int
// identifier interning for the routing graph's hot loop.
//
// The dense-vertex graph (routing.Graph) is built once from string-keyed
// sources (quantized lat/lon pairs, canonical edge keys) but searched many
// times per second, so floating point values are quantized exactly once at
// ingest and node/edge identity is carried as small integers everywhere
// but the load/save path, where stable string IDs remain necessary for
// deterministic, order-independent serialization.
//
// This generalizes an atomic-counter identifier idiom into a two-way
// intern table: values are assigned dense integer IDs on first sight and
// the original string key remains recoverable for serialization.
package ids

import (
	"fmt"
	"math"
	"sync"
)

// CoordPrecision is the number of decimal digits lat/lon are rounded to
// before they participate in node identity. Two geometrically coincident
// vertices from different input segments collapse to a single node iff
// they round to the same key at this precision.
const CoordPrecision = 6

// QuantizeCoord rounds lat/lon to CoordPrecision decimal digits and
// returns the canonical node key used for interning and serialization.
// Quantization happens exactly once, here; no other code compares raw
// float lat/lon for equality.
func QuantizeCoord(lat, lon float64) string {
	scale := math.Pow(10, CoordPrecision)
	qLat := math.Round(lat*scale) / scale
	qLon := math.Round(lon*scale) / scale

	return fmt.Sprintf("%.*f,%.*f", CoordPrecision, qLat, CoordPrecision, qLon)
}

// CanonicalEdgeKey returns the deterministic key for an edge between two
// node keys, independent of traversal direction: the lexicographically
// smaller key always comes first. This is the basis of Edge.ID.
func CanonicalEdgeKey(a, b string) string {
	if a <= b {
		return a + "|" + b
	}

	return b + "|" + a
}

// Interner maps stable string keys to dense, zero-based integer indices
// and back. It is the only place string IDs are compared or hashed in the
// routing graph's construction path; after Freeze, lookups are allocation
// free array indexing.
//
// Interner is safe for concurrent use during construction (mu guards the
// maps); once the graph is built it is discarded, never shared with
// searches (see routing.Graph, which keeps only the resulting dense
// arrays).
type Interner struct {
	mu      sync.Mutex
	keyToID map[string]int
	idToKey []string
}

// NewInterner returns an empty Interner with capacity pre-sized for hint
// entries, to avoid repeated map growth while ingesting a large segment
// corpus.
func NewInterner(hint int) *Interner {
	if hint < 0 {
		hint = 0
	}

	return &Interner{
		keyToID: make(map[string]int, hint),
		idToKey: make([]string, 0, hint),
	}
}

// Intern returns the dense integer ID for key, allocating a new one on
// first sight. Complexity: O(1) amortized.
func (n *Interner) Intern(key string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	if id, ok := n.keyToID[key]; ok {
		return id
	}

	id := len(n.idToKey)
	n.keyToID[key] = id
	n.idToKey = append(n.idToKey, key)

	return id
}

// Lookup returns the dense integer ID for key without allocating one, and
// reports whether key has been interned already.
func (n *Interner) Lookup(key string) (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id, ok := n.keyToID[key]

	return id, ok
}

// Key returns the original string key for a dense integer ID. Panics if id
// is out of range, since that indicates a programming error in the
// builder rather than recoverable bad input.
func (n *Interner) Key(id int) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.idToKey[id]
}

// Len returns the number of interned keys.
func (n *Interner) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.idToKey)
}

// Keys returns a snapshot copy of all interned keys ordered by ID. The
// returned slice is owned by the caller.
func (n *Interner) Keys() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]string, len(n.idToKey))
	copy(out, n.idToKey)

	return out
}
