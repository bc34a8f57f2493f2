package cache

import (
	"sync"

	"mealtrack/internal/meals/domain/model"
)

// RecordCache holds the canonical client-side ordered sequence of meals for
// one owner, indexed by id. It is mutated only by the sync usecase; view
// code reads snapshots. In-flight mutations on different records may touch
// the cache concurrently, so all access goes through the mutex.
type RecordCache struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*model.Meal
}

// NewRecordCache creates an empty cache.
func NewRecordCache() *RecordCache {
	return &RecordCache{
		byID: make(map[string]*model.Meal),
	}
}

// ReplaceAll replaces the entire contents with a freshly fetched list.
// A full fetch is authoritative: any pending optimistic state the caller
// tracks against the previous contents must be discarded alongside.
func (c *RecordCache) ReplaceAll(meals []*model.Meal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = make([]string, 0, len(meals))
	c.byID = make(map[string]*model.Meal, len(meals))
	for _, m := range meals {
		if m == nil {
			continue
		}
		if _, seen := c.byID[m.ID]; seen {
			// one record per id; the last occurrence wins in place
			c.byID[m.ID] = m.Clone()
			continue
		}
		c.order = append(c.order, m.ID)
		c.byID[m.ID] = m.Clone()
	}
}

// Get returns a copy of the record, or false when absent.
func (c *RecordCache) Get(id string) (*model.Meal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}

// Upsert inserts the record if absent (appending to the order) or
// overwrites it in place, preserving its position.
func (c *RecordCache) Upsert(meal *model.Meal) {
	if meal == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[meal.ID]; !ok {
		c.order = append(c.order, meal.ID)
	}
	c.byID[meal.ID] = meal.Clone()
}

// Replace swaps the record stored under oldID for the given record,
// keeping the original position. Used when a transient local create is
// confirmed under its server-assigned id. Falls back to Upsert when oldID
// is not present.
func (c *RecordCache) Replace(oldID string, meal *model.Meal) {
	if meal == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[oldID]; !ok {
		if _, present := c.byID[meal.ID]; !present {
			c.order = append(c.order, meal.ID)
		}
		c.byID[meal.ID] = meal.Clone()
		return
	}

	delete(c.byID, oldID)
	for i, id := range c.order {
		if id == oldID {
			c.order[i] = meal.ID
			break
		}
	}
	c.byID[meal.ID] = meal.Clone()
}

// Remove deletes the record; no-op when absent.
func (c *RecordCache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[id]; !ok {
		return
	}
	delete(c.byID, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of cached records.
func (c *RecordCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Snapshot returns a copy of the contents in cache order, safe to hand to
// projection code.
func (c *RecordCache) Snapshot() []*model.Meal {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*model.Meal, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id].Clone())
	}
	return out
}
