/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package inventory

import (
	"context"
	"math"
)

// Store persists items. Implementations are safe for concurrent use.
type Store interface {
	// List returns all items in creation order, never nil.
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	// Create assigns the next id, which is never reused within the store's life.
	Create(ctx context.Context, it Item) (Item, error)
	// Update replaces every field except the id.
	Update(ctx context.Context, id int64, it Item) (Item, error)
	Delete(ctx context.Context, id int64) error
	// Adjust changes quantities atomically. It returns ErrNotFound if any id is
	// unknown, *InsufficientStockError if any quantity would drop below zero and
	// ErrQuantityOverflow if one would exceed the int range; nothing changes on error.
	// On success the items are returned in delta order.
	Adjust(ctx context.Context, deltas []Delta) ([]Item, error)
	Close() error
}

// Delta is a signed quantity change of one item.
type Delta struct {
	ID     int64
	Amount int
}

// planAdjust validates deltas against the current items and returns the resulting quantity per id.
func planAdjust(deltas []Delta, lookup func(id int64) (Item, bool)) (map[int64]int, error) {
	current := make(map[int64]Item, len(deltas))
	order := make([]int64, 0, len(deltas))
	for _, d := range deltas {
		if _, seen := current[d.ID]; seen {
			continue
		}
		it, ok := lookup(d.ID)
		if !ok {
			return nil, ErrNotFound
		}
		current[d.ID] = it
		order = append(order, d.ID)
	}

	next := make(map[int64]int, len(current))
	for id, it := range current {
		next[id] = it.Quantity
	}
	for _, d := range deltas {
		q := next[d.ID]
		if (d.Amount > 0 && q > math.MaxInt-d.Amount) || (d.Amount < 0 && q < math.MinInt-d.Amount) {
			return nil, ErrQuantityOverflow
		}
		next[d.ID] = q + d.Amount
	}

	var short []Item
	for _, id := range order {
		if next[id] < 0 {
			short = append(short, current[id])
		}
	}
	if len(short) > 0 {
		return nil, &InsufficientStockError{Items: short}
	}

	return next, nil
}
