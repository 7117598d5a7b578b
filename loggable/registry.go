package loggable

import (
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

var registry = struct {
	mu    sync.RWMutex
	kinds map[string]struct{}
}{kinds: map[string]struct{}{}}

func init() {
	for _, k := range []string{
		KindPoint, KindTransform, KindRotation, KindScalar, KindPolyline,
		KindPolygon, KindMesh, KindArmature, KindCapsule, KindSphere,
	} {
		registry.kinds[k] = struct{}{}
	}
}

// RegisterKind declares a kind the downstream parser understands so values of
// that kind can be recorded. Registering a kind twice is a no-op.
func RegisterKind(kind string) error {
	if strings.TrimSpace(kind) == "" {
		return errors.New("loggable: kind is empty")
	}
	registry.mu.Lock()
	registry.kinds[kind] = struct{}{}
	registry.mu.Unlock()
	return nil
}

// IsRegistered reports whether kind may be recorded.
func IsRegistered(kind string) bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	_, ok := registry.kinds[kind]
	return ok
}

// Kinds returns the registered kinds in sorted order.
func Kinds() []string {
	registry.mu.RLock()
	out := make([]string, 0, len(registry.kinds))
	for k := range registry.kinds {
		out = append(out, k)
	}
	registry.mu.RUnlock()
	sort.Strings(out)
	return out
}
