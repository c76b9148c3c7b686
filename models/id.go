package models

import (
	"sort"
	"sync"
)

// SequentialIDGenerator hands out positive ids, starting at 1. Released ids
// are handed out again, lowest first, before new ones.
type SequentialIDGenerator struct {
	mutex       sync.Mutex
	currentID   int
	reusableIDs []int
}

// New returns the lowest reusable id, or the next sequential one.
func (g *SequentialIDGenerator) New() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if len(g.reusableIDs) != 0 {
		id := g.reusableIDs[0]
		g.reusableIDs = g.reusableIDs[1:]
		return id
	}

	g.currentID++
	return g.currentID
}

// Reuse marks the given id as reusable. Ids that were never handed out or
// that are already reusable are ignored.
func (g *SequentialIDGenerator) Reuse(id int) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if id <= 0 || id > g.currentID {
		return
	}

	i := sort.SearchInts(g.reusableIDs, id)
	if i < len(g.reusableIDs) && g.reusableIDs[i] == id {
		return
	}
	g.reusableIDs = append(g.reusableIDs, 0)
	copy(g.reusableIDs[i+1:], g.reusableIDs[i:])
	g.reusableIDs[i] = id
}
