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
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFilter_Matrix(t *testing.T) {
	store := NewMemoryStore()
	seeded(t, store)
	svc := NewService(store, discardLogger())

	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{1, 2, 3}},
		{"title=Book", []int64{1, 2}},
		{"title=book", []int64{1, 2}},
		{"description=magazine", []int64{3}},
		{"category=Book", []int64{1, 2}},
		{"price_from=150", []int64{2, 3}},
		{"price_to=250", []int64{1, 2}},
		{"discount_from=5", []int64{2}},
		{"discount_to=8", []int64{}},
		{"quantity_from=10", []int64{1, 3}},
		{"quantity_to=10", []int64{1, 2}},
		{"title=Book&category=Book", []int64{1, 2}},
		{"price_from=150&price_to=250", []int64{2}},
		{"discount_from=5&discount_to=8", []int64{}},
		{"quantity_from=10&quantity_to=10", []int64{1}},
		{"title=Book&category=Book&price_from=150&price_to=250&discount_from=5&discount_to=8&quantity_from=10&quantity_to=10", []int64{}},
		{"category=book&category=some", []int64{1, 2}},
		{"category=book&category=MAGAZINE", []int64{1, 2, 3}},
		{"price_from=0", []int64{1, 2, 3}},
		{"discount_from=0", []int64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			f, err := ParseFilter(q)
			require.NoError(t, err)

			items, err := svc.Filter(context.Background(), f)
			require.NoError(t, err)

			got := make([]int64, 0, len(items))
			for _, it := range items {
				got = append(got, it.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilter_InvalidBound(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		field string
	}{
		{"word", url.Values{"price_from": {"cheap"}}, "price_from"},
		{"nan", url.Values{"price_to": {"NaN"}}, "price_to"},
		{"infinity", url.Values{"quantity_from": {"-Inf"}}, "quantity_from"},
		{"overflowing float", url.Values{"discount_to": {"1e400"}}, "discount_to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.query)
			var invalid *ValidationError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}
