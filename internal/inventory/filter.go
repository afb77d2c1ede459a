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
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Filter is a conjunction of optional predicates. Nil or empty fields do not restrict.
// A bound of zero is a set bound.
type Filter struct {
	Title        string
	Description  string
	Categories   []string // any-of, case-insensitive
	PriceFrom    *float64
	PriceTo      *float64
	DiscountFrom *float64
	DiscountTo   *float64
	QuantityFrom *float64
	QuantityTo   *float64
}

// ParseFilter reads a Filter from query parameters.
// A bound that is not a finite number yields a *ValidationError.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		Title:       q.Get("title"),
		Description: q.Get("description"),
	}
	for _, c := range q["category"] {
		if c != "" {
			f.Categories = append(f.Categories, c)
		}
	}

	bounds := []struct {
		name string
		dst  **float64
	}{
		{"price_from", &f.PriceFrom},
		{"price_to", &f.PriceTo},
		{"discount_from", &f.DiscountFrom},
		{"discount_to", &f.DiscountTo},
		{"quantity_from", &f.QuantityFrom},
		{"quantity_to", &f.QuantityTo},
	}
	for _, b := range bounds {
		raw := q.Get(b.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Filter{}, &ValidationError{Field: b.name, Reason: "must be a number"}
		}
		*b.dst = &v
	}

	return f, nil
}

// Match reports whether it satisfies every set predicate.
// An item without a discount fails any discount bound.
func (f *Filter) Match(it *Item) bool {
	if f.Title != "" && !containsFold(it.Title, f.Title) {
		return false
	}
	if f.Description != "" && !containsFold(it.Description, f.Description) {
		return false
	}
	if len(f.Categories) > 0 && !f.matchCategory(it.Category) {
		return false
	}
	if !within(it.Price, f.PriceFrom, f.PriceTo) {
		return false
	}
	if f.DiscountFrom != nil || f.DiscountTo != nil {
		if it.Discount == nil || !within(*it.Discount, f.DiscountFrom, f.DiscountTo) {
			return false
		}
	}
	return within(float64(it.Quantity), f.QuantityFrom, f.QuantityTo)
}

func (f *Filter) matchCategory(category string) bool {
	for _, c := range f.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

func within(v float64, from, to *float64) bool {
	if from != nil && v < *from {
		return false
	}
	if to != nil && v > *to {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
