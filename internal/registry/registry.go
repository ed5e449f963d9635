// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/retrohub/internal/core"
)

// Game is the core interface that all arcade games must implement.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "atari-breakout").
	// Used for CLI commands, score storage and score submission.
	ID() string

	// Title returns a human-readable name for display (e.g., "Atari Breakout").
	Title() string

	// Reset initializes or resets the game state.
	// Called once at start and again when the screen no longer fits.
	// The RuntimeConfig provides screen dimensions and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one frame.
	// Input is abstracted to platform-level actions plus the frame timestamp.
	// Returns the result of this frame including current game state.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns the current game state (score, game over, paused).
	State() core.GameState
}

// RunReporter is implemented by games that report finished runs themselves
// (on game over and when closed mid-run). The platform hands its score
// recorder in here instead of polling State.
type RunReporter interface {
	OnRunEnded(fn func(core.RunSummary))
}

// Resizer is implemented by games that can follow a terminal resize
// without restarting.
type Resizer interface {
	Resize(screenW, screenH int)
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID          string
	Title       string
	Category    string
	Description string
	Aliases     []string
}

// Info describes a game at registration time.
type Info struct {
	Category    string
	Description string
	Aliases     []string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

type entry struct {
	factory Factory
	info    GameInfo
}

var (
	entries = make(map[string]entry)
	aliases = make(map[string]string)
	mu      sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game or alias with the same ID is already registered.
func Register(id string, f Factory, info Info) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	if _, exists := aliases[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered as an alias", id))
	}

	// Get title by creating a temporary instance
	g := f()
	entries[id] = entry{
		factory: f,
		info: GameInfo{
			ID:          id,
			Title:       g.Title(),
			Category:    info.Category,
			Description: info.Description,
			Aliases:     append([]string(nil), info.Aliases...),
		},
	}

	for _, alias := range info.Aliases {
		if _, exists := entries[alias]; exists {
			panic(fmt.Sprintf("registry: alias %q shadows a game", alias))
		}
		aliases[alias] = id
	}
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Resolve maps an ID or alias to the registered game ID.
func Resolve(name string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return resolveLocked(name)
}

func resolveLocked(name string) (string, bool) {
	if _, ok := entries[name]; ok {
		return name, true
	}
	if id, ok := aliases[name]; ok {
		return id, true
	}
	return "", false
}

// Lookup returns the metadata of a game by ID or alias.
func Lookup(name string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	id, ok := resolveLocked(name)
	if !ok {
		return GameInfo{}, false
	}
	return entries[id].info, true
}

// Create instantiates a new game by its ID or alias.
// Returns an error if the name is not registered.
func Create(name string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	id, ok := resolveLocked(name)
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", name)
	}

	return entries[id].factory(), nil
}

// Exists checks if a game with the given ID or alias is registered.
func Exists(name string) bool {
	_, ok := Resolve(name)
	return ok
}
