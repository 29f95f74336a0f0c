// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"slices"
	"strings"
	"sync"
)

// MemoryCatalog is an in-memory Catalog that preserves insertion order.
//
// Items handed out by Items and Item are never modified afterwards:
// UpdateRating and SetAvailable swap in an updated clone, so scorers may
// read the returned pointers without locking. Callers must not mutate them
// either; Put takes ownership of its argument.
type MemoryCatalog struct {
	mu    sync.RWMutex
	order []string
	items map[string]*Item
}

// NewMemoryCatalog creates a catalog from items. Later duplicates replace earlier ones.
func NewMemoryCatalog(items ...*Item) *MemoryCatalog {
	c := &MemoryCatalog{items: make(map[string]*Item, len(items))}
	for _, item := range items {
		c.Put(item)
	}
	return c
}

// Put adds or replaces an item.
func (c *MemoryCatalog) Put(item *Item) {
	if item == nil || item.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[item.ID]; !ok {
		c.order = append(c.order, item.ID)
	}
	c.items[item.ID] = item
}

// Items returns all items in insertion order.
func (c *MemoryCatalog) Items() []*Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Item, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Item returns an item by ID.
func (c *MemoryCatalog) Item(id string) (*Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// UpdateRating folds a rating into a fresh copy of the item.
func (c *MemoryCatalog) UpdateRating(id string, rating float64) error {
	return c.replace(id, func(item *Item) { item.UpdateRating(rating) })
}

// SetAvailable sets the availability of a fresh copy of the item.
func (c *MemoryCatalog) SetAvailable(id string, available bool) error {
	return c.replace(id, func(item *Item) { item.Available = available })
}

func (c *MemoryCatalog) replace(id string, update func(*Item)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		return ErrItemNotFound
	}
	next := item.Clone()
	update(next)
	c.items[id] = next
	return nil
}

// MemoryInventory is an in-memory Inventory keyed by item ID.
type MemoryInventory struct {
	mu    sync.RWMutex
	stock map[string]int
}

// NewMemoryInventory creates an empty inventory.
func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{stock: make(map[string]int)}
}

// SetStock sets the quantity on hand; negative values become zero.
func (inv *MemoryInventory) SetStock(itemID string, qty int) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.stock[itemID] = max(0, qty)
}

// IsInStock reports a positive quantity. Unknown items are out of stock.
func (inv *MemoryInventory) IsInStock(itemID string) bool {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.stock[itemID] > 0
}

// MemoryOrderHistory is an in-memory OrderHistory.
type MemoryOrderHistory struct {
	mu     sync.RWMutex
	orders map[string]map[string]int
}

// NewMemoryOrderHistory creates an empty order history.
func NewMemoryOrderHistory() *MemoryOrderHistory {
	return &MemoryOrderHistory{orders: make(map[string]map[string]int)}
}

// Record adds quantity orders of an item for a user.
func (h *MemoryOrderHistory) Record(userID, itemID string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.orders[userID] == nil {
		h.orders[userID] = make(map[string]int)
	}
	h.orders[userID][itemID] += quantity
}

// HasAnyOrders reports whether the user has ordered anything.
func (h *MemoryOrderHistory) HasAnyOrders(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.orders[userID]) > 0
}

// ItemIDsOrdered returns the set of item IDs the user has ordered.
func (h *MemoryOrderHistory) ItemIDsOrdered(userID string) map[string]struct{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]struct{}, len(h.orders[userID]))
	for id := range h.orders[userID] {
		out[id] = struct{}{}
	}
	return out
}

// OrderCount is one user's accumulated quantity of one item.
type OrderCount struct {
	UserID   string `json:"user_id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Counts returns every accumulated order, sorted by user then item.
func (h *MemoryOrderHistory) Counts() []OrderCount {
	h.mu.RLock()
	out := make([]OrderCount, 0, len(h.orders))
	for user, items := range h.orders {
		for item, qty := range items {
			out = append(out, OrderCount{UserID: user, ItemID: item, Quantity: qty})
		}
	}
	h.mu.RUnlock()

	slices.SortFunc(out, func(a, b OrderCount) int {
		if c := strings.Compare(a.UserID, b.UserID); c != 0 {
			return c
		}
		return strings.Compare(a.ItemID, b.ItemID)
	})
	return out
}

// Restore replaces the counts of every user and item present in counts.
// Entries without ids or with a non-positive quantity are skipped.
func (h *MemoryOrderHistory) Restore(counts []OrderCount) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	restored := 0
	for _, c := range counts {
		if c.UserID == "" || c.ItemID == "" || c.Quantity < 1 {
			continue
		}
		if h.orders[c.UserID] == nil {
			h.orders[c.UserID] = make(map[string]int)
		}
		h.orders[c.UserID][c.ItemID] = c.Quantity
		restored++
	}
	return restored
}
