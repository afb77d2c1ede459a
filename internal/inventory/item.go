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

// Package inventory keeps the item catalogue served by the inventory API.
package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// Item is a catalogue entry. Discount is nil when the item has none.
type Item struct {
	ID          int64    `json:"id" db:"id" yaml:"-"`
	Title       string   `json:"title" db:"title" yaml:"title"`
	Description string   `json:"description" db:"description" yaml:"description"`
	Category    string   `json:"category" db:"category" yaml:"category"`
	Price       float64  `json:"price" db:"price" yaml:"price"`
	Discount    *float64 `json:"discount" db:"discount" yaml:"discount"`
	Quantity    int      `json:"quantity" db:"quantity" yaml:"quantity"`
}

// ItemInput is the body of create and update requests.
// Pointer fields tell a missing field apart from a zero value.
// Any id in the body is ignored; ids come from the store or the URL.
type ItemInput struct {
	Title       *string  `json:"title" yaml:"title"`
	Description *string  `json:"description" yaml:"description"`
	Category    *string  `json:"category" yaml:"category"`
	Price       *float64 `json:"price" yaml:"price"`
	Discount    *float64 `json:"discount" yaml:"discount"`
	Quantity    *int     `json:"quantity" yaml:"quantity"`
}

// ValidationError describes an unusable field of an ItemInput or a query.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate checks required fields and value ranges.
// All problems are reported, joined in field order.
func (in *ItemInput) Validate() error {
	var errs []error

	required := []struct {
		name    string
		missing bool
	}{
		{"title", in.Title == nil},
		{"description", in.Description == nil},
		{"category", in.Category == nil},
		{"price", in.Price == nil},
		{"quantity", in.Quantity == nil},
	}
	for _, r := range required {
		if r.missing {
			errs = append(errs, &ValidationError{Field: r.name, Reason: "field required"})
		}
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		errs = append(errs, &ValidationError{Field: "title", Reason: "must not be empty"})
	}
	if in.Price != nil && *in.Price < 0 {
		errs = append(errs, &ValidationError{Field: "price", Reason: "must be non-negative"})
	}
	if in.Discount != nil && *in.Discount < 0 {
		errs = append(errs, &ValidationError{Field: "discount", Reason: "must be non-negative"})
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		errs = append(errs, &ValidationError{Field: "quantity", Reason: "must be non-negative"})
	}

	return errors.Join(errs...)
}

// Item converts a validated input into an Item without an id.
func (in *ItemInput) Item() Item {
	it := Item{
		Title:       *in.Title,
		Description: *in.Description,
		Category:    *in.Category,
		Price:       *in.Price,
		Quantity:    *in.Quantity,
	}
	if in.Discount != nil {
		d := *in.Discount
		it.Discount = &d
	}
	return it
}
