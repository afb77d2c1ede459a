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
	"sync"
)

// MemoryStore keeps items in a slice for the process lifetime.
type MemoryStore struct {
	mu     sync.RWMutex
	items  []Item
	lastID int64 // high-water mark, survives deletes
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(_ context.Context) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	for i := range s.items {
		out[i] = cloneItem(&s.items[i])
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Item{}, ErrNotFound
	}
	return cloneItem(&s.items[i]), nil
}

func (s *MemoryStore) Create(_ context.Context, it Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	it.ID = s.lastID
	it = cloneItem(&it)
	s.items = append(s.items, it)
	return cloneItem(&it), nil
}

func (s *MemoryStore) Update(_ context.Context, id int64, it Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Item{}, ErrNotFound
	}
	it.ID = id
	s.items[i] = cloneItem(&it)
	return cloneItem(&it), nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *MemoryStore) Adjust(_ context.Context, deltas []Delta) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := planAdjust(deltas, func(id int64) (Item, bool) {
		i := s.indexOf(id)
		if i < 0 {
			return Item{}, false
		}
		return cloneItem(&s.items[i]), true
	})
	if err != nil {
		return nil, err
	}

	for id, qty := range next {
		s.items[s.indexOf(id)].Quantity = qty
	}

	out := make([]Item, len(deltas))
	for i, d := range deltas {
		out[i] = cloneItem(&s.items[s.indexOf(d.ID)])
	}
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// indexOf does a linear scan; callers hold the lock.
func (s *MemoryStore) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// cloneItem copies the discount so callers never share it with the store.
func cloneItem(it *Item) Item {
	c := *it
	if it.Discount != nil {
		d := *it.Discount
		c.Discount = &d
	}
	return c
}
