package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver hands out unique output paths within one batch. Two
// inputs that differ only by extension ("a.mkv", "a.avi") map to the same
// output; the later one gets a " - dupN" suffix. Safe for concurrent use.
type CollisionResolver struct {
	mu     sync.Mutex
	owners map[string]string // output path → owning input
	next   map[string]int    // requested path → next dup number to try
}

// NewCollisionResolver creates an empty resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners: make(map[string]string),
		next:   make(map[string]int),
	}
}

// Resolve claims requested for input. Re-claiming a path already owned by
// input returns it unchanged.
func (cr *CollisionResolver) Resolve(input, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.claim(input, requested) {
		return requested
	}

	ext := filepath.Ext(requested)
	stem := strings.TrimSuffix(requested, ext)
	n := max(cr.next[requested], 1)
	for {
		candidate := fmt.Sprintf("%s - dup%d%s", stem, n, ext)
		n++
		if cr.claim(input, candidate) {
			cr.next[requested] = n
			return candidate
		}
	}
}

func (cr *CollisionResolver) claim(input, path string) bool {
	owner, taken := cr.owners[path]
	if taken && owner != input {
		return false
	}
	cr.owners[path] = input
	return true
}
