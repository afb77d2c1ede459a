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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededService(t *testing.T) *Service {
	t.Helper()
	store := NewMemoryStore()
	seeded(t, store)
	return NewService(store, discardLogger())
}

func TestService_Sell(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	res, err := svc.Sell(ctx, []int64{1})
	require.NoError(t, err)
	assert.Equal(t, MessageSold, res.Message)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 9, res.Items[0].Quantity)

	res, err = svc.Sell(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, MessageSold, res.Message)
	assert.Equal(t, 8, res.Items[0].Quantity)
	assert.Equal(t, 4, res.Items[1].Quantity)

	_, err = svc.Sell(ctx, []int64{100})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Sell(ctx, nil)
	assert.ErrorIs(t, err, ErrNoIDs)
}

func TestService_SellOutOfStock(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	empty := fixtureItems()[0]
	empty.Quantity = 0
	_, err := svc.Store().Update(ctx, 1, empty)
	require.NoError(t, err)

	res, err := svc.Sell(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, MessageInsufficientStock, res.Message)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(1), res.Items[0].ID)
	assert.Equal(t, 0, res.Items[0].Quantity)

	// Nothing changed for the item that had stock
	it, err := svc.Store().Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, it.Quantity)
}

func TestService_Increment(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	items, err := svc.Increment(ctx, []int64{1, 2}, []int{10, 5})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 20, items[0].Quantity)
	assert.Equal(t, 10, items[1].Quantity)

	_, err = svc.Increment(ctx, []int64{100, 1}, []int{10, 5})
	assert.ErrorIs(t, err, ErrNotFound)
	it, err := svc.Store().Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, it.Quantity)

	_, err = svc.Increment(ctx, []int64{1, 2}, []int{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = svc.Increment(ctx, []int64{1}, []int{0})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = svc.Increment(ctx, nil, nil)
	assert.ErrorIs(t, err, ErrNoIDs)
}

func TestItemInput_Validate(t *testing.T) {
	title, desc, cat := "t", "d", "c"
	price, qty := 1.0, 1
	negPrice, negQty := -1.0, -1

	valid := ItemInput{Title: &title, Description: &desc, Category: &cat, Price: &price, Quantity: &qty}
	assert.NoError(t, valid.Validate())

	missing := ItemInput{Title: &title}
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description: field required")
	assert.Contains(t, err.Error(), "quantity: field required")

	negative := valid
	negative.Price = &negPrice
	negative.Quantity = &negQty
	err = negative.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price: must be non-negative")
	assert.Contains(t, err.Error(), "quantity: must be non-negative")
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.yaml")
	content := `
- title: Book 1
  description: Book 1 description
  category: Book
  price: 100
  quantity: 10
- title: Book 2
  description: Book 2 description
  category: Book
  price: 200
  discount: 10
  quantity: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store := NewMemoryStore()
	n, err := LoadSeed(context.Background(), store, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	items, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[0].Discount)
	require.NotNil(t, items[1].Discount)
	assert.Equal(t, 10.0, *items[1].Discount)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- title: only a title\n"), 0o600))
	_, err = LoadSeed(context.Background(), NewMemoryStore(), bad)
	assert.Error(t, err)
}
