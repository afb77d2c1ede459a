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
	"errors"
	"log/slog"
)

// Sale outcome messages.
const (
	MessageSold              = "Item sold"
	MessageInsufficientStock = "Insufficient stock"
)

// SaleResult is the body of a sale response.
type SaleResult struct {
	Message string `json:"message"`
	Items   []Item `json:"items"`
}

// Service holds the operations that go beyond plain CRUD.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a service over store.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Store returns the underlying store.
func (s *Service) Store() Store {
	return s.store
}

// Filter returns the items matching f, in creation order.
func (s *Service) Filter(ctx context.Context, f Filter) ([]Item, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Item, 0, len(items))
	for i := range items {
		if f.Match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out, nil
}

// Sell takes one unit per id occurrence. Unknown ids fail the whole batch with ErrNotFound.
// A shortage is not an error: the result carries MessageInsufficientStock and the short items.
func (s *Service) Sell(ctx context.Context, ids []int64) (SaleResult, error) {
	if len(ids) == 0 {
		return SaleResult{}, ErrNoIDs
	}

	deltas := make([]Delta, len(ids))
	for i, id := range ids {
		deltas[i] = Delta{ID: id, Amount: -1}
	}

	items, err := s.store.Adjust(ctx, deltas)
	var short *InsufficientStockError
	if errors.As(err, &short) {
		s.logger.Info("Sale rejected", "ids", ids, "reason", MessageInsufficientStock)
		return SaleResult{Message: MessageInsufficientStock, Items: short.Items}, nil
	}
	if err != nil {
		return SaleResult{}, err
	}

	s.logger.Info("Items sold", "ids", ids)
	return SaleResult{Message: MessageSold, Items: items}, nil
}

// Increment raises each item's quantity by its paired amount.
func (s *Service) Increment(ctx context.Context, ids []int64, amounts []int) ([]Item, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}
	if len(ids) != len(amounts) {
		return nil, ErrLengthMismatch
	}

	deltas := make([]Delta, len(ids))
	for i := range ids {
		if amounts[i] <= 0 {
			return nil, ErrNonPositiveAmount
		}
		deltas[i] = Delta{ID: ids[i], Amount: amounts[i]}
	}

	items, err := s.store.Adjust(ctx, deltas)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock incremented", "ids", ids, "amounts", amounts)
	return items, nil
}
