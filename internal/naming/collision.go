package naming

import "sync"

// CollisionTracker records which source path claimed each output path in a
// run. Two sources differing only by extension (logo.png, logo.jpg) map to
// the same logo.webp; the later one overwrites the earlier output, and the
// tracker lets the pipeline warn about it. All methods are goroutine-safe.
type CollisionTracker struct {
	mu     sync.Mutex
	owners map[string]string // output path -> source path that last wrote it
}

// NewCollisionTracker creates a ready-to-use tracker.
func NewCollisionTracker() *CollisionTracker {
	return &CollisionTracker{owners: make(map[string]string)}
}

// Claim records src as the owner of output. If a different source already
// claimed output, that previous owner is returned with collided=true.
func (ct *CollisionTracker) Claim(src, output string) (previous string, collided bool) {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	owner, exists := ct.owners[output]
	ct.owners[output] = src
	if exists && owner != src {
		return owner, true
	}
	return "", false
}
