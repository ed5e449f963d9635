package submit

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/quasilyte/gdata/v2"
)

// BestStore keeps each user's best score per game on this machine.
// User names compare case-insensitively.
type BestStore interface {
	Best(user, gameKey string) (best int, ok bool, err error)
	SetBest(user, gameKey string, score int) error
}

func bestKey(user, gameKey string) string {
	return strings.ToLower(user) + ":" + gameKey
}

// GDataBest persists bests in the per-user application data directory.
type GDataBest struct {
	m *gdata.Manager
}

const bestObject = "best"

// OpenGDataBest opens (or creates) the data directory of appName.
func OpenGDataBest(appName string) (*GDataBest, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("submit: cannot open data dir: %w", err)
	}
	return &GDataBest{m: m}, nil
}

// propKey hex-encodes the key so any user name makes a valid file name.
func propKey(user, gameKey string) string {
	return hex.EncodeToString([]byte(bestKey(user, gameKey)))
}

// Best implements BestStore.
func (g *GDataBest) Best(user, gameKey string) (int, bool, error) {
	key := propKey(user, gameKey)
	if !g.m.ObjectPropExists(bestObject, key) {
		return 0, false, nil
	}
	data, err := g.m.LoadObjectProp(bestObject, key)
	if err != nil {
		return 0, false, fmt.Errorf("submit: cannot load best: %w", err)
	}
	// A corrupt value counts as zero, like an unparsable stored best.
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, true, nil
	}
	return n, true, nil
}

// SetBest implements BestStore.
func (g *GDataBest) SetBest(user, gameKey string, score int) error {
	data := []byte(strconv.Itoa(score))
	if err := g.m.SaveObjectProp(bestObject, propKey(user, gameKey), data); err != nil {
		return fmt.Errorf("submit: cannot save best: %w", err)
	}
	return nil
}

// MemoryBest is an in-process BestStore.
type MemoryBest struct {
	mu   sync.Mutex
	best map[string]int
}

// NewMemoryBest creates an empty MemoryBest.
func NewMemoryBest() *MemoryBest {
	return &MemoryBest{best: make(map[string]int)}
}

// Best implements BestStore.
func (m *MemoryBest) Best(user, gameKey string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.best[bestKey(user, gameKey)]
	return n, ok, nil
}

// SetBest implements BestStore.
func (m *MemoryBest) SetBest(user, gameKey string, score int) error {
	m.mu.Lock()
	m.best[bestKey(user, gameKey)] = score
	m.mu.Unlock()
	return nil
}
