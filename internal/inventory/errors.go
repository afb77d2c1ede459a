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
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id does not exist.
	ErrNotFound = errors.New("item not found")

	// ErrLengthMismatch is returned when ids and quantities are not paired.
	ErrLengthMismatch = errors.New("ids and quantities must have the same length")

	// ErrNonPositiveAmount is returned when an increment amount is zero or negative.
	ErrNonPositiveAmount = errors.New("quantity must be positive")

	// ErrNoIDs is returned when a bulk operation names no items.
	ErrNoIDs = errors.New("at least one id is required")

	// ErrQuantityOverflow is returned when an adjustment would push a quantity out of range.
	ErrQuantityOverflow = errors.New("resulting quantity is too large")
)

// InsufficientStockError lists the items that cannot cover a sale.
type InsufficientStockError struct {
	Items []Item
}

func (e *InsufficientStockError) Error() string {
	ids := make([]int64, len(e.Items))
	for i := range e.Items {
		ids[i] = e.Items[i].ID
	}
	return fmt.Sprintf("insufficient stock for items %v", ids)
}
