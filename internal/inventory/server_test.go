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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func newAPIClient(t *testing.T) *apiClient {
	t.Helper()
	return &apiClient{t: t, handler: NewServer(newSeededService(t), discardLogger()).Handler()}
}

func (c *apiClient) do(method, target, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["detail"]
}

func TestServer_ListAndGet(t *testing.T) {
	c := newAPIClient(t)

	rec := c.do(http.MethodGet, "/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]Item](t, rec)
	require.Len(t, items, 3)
	assert.Equal(t, "Magazine 1", items[2].Title)

	rec = c.do(http.MethodGet, "/items/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	item := decode[Item](t, rec)
	assert.Equal(t, int64(2), item.ID)
	require.NotNil(t, item.Discount)
	assert.Equal(t, 10.0, *item.Discount)

	rec = c.do(http.MethodGet, "/items/100", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Item not found", detailOf(t, rec))

	rec = c.do(http.MethodGet, "/items/abc", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServer_DiscountSerializesAsNull(t *testing.T) {
	c := newAPIClient(t)

	rec := c.do(http.MethodGet, "/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	raw := decode[map[string]any](t, rec)
	v, ok := raw["discount"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestServer_CreateUpdateDelete(t *testing.T) {
	c := newAPIClient(t)

	rec := c.do(http.MethodPost, "/items", `{"title":"Book 3","description":"Book 3 description","category":"Book","price":150,"quantity":7}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[Item](t, rec)
	assert.Equal(t, int64(4), created.ID)
	assert.Nil(t, created.Discount)

	rec = c.do(http.MethodPut, "/items/4", `{"id":42,"title":"Book 3 upd","description":"d","category":"Book","price":160,"discount":5,"quantity":8}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[Item](t, rec)
	assert.Equal(t, int64(4), updated.ID)
	assert.Equal(t, "Book 3 upd", updated.Title)

	rec = c.do(http.MethodPut, "/items/100", `{"title":"x","description":"d","category":"c","price":1,"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodDelete, "/items/4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Item deleted", decode[map[string]string](t, rec)["message"])

	rec = c.do(http.MethodDelete, "/items/4", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Ids keep increasing after deletes
	rec = c.do(http.MethodPost, "/items", `{"title":"Book 4","description":"d","category":"Book","price":1,"quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), decode[Item](t, rec).ID)
}

func TestServer_CreateRejectsBadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"title":`, http.StatusBadRequest},
		{"missing fields", `{"title":"only"}`, http.StatusUnprocessableEntity},
		{"negative price", `{"title":"t","description":"d","category":"c","price":-1,"quantity":1}`, http.StatusUnprocessableEntity},
		{"negative quantity", `{"title":"t","description":"d","category":"c","price":1,"quantity":-1}`, http.StatusUnprocessableEntity},
		{"empty title", `{"title":" ","description":"d","category":"c","price":1,"quantity":1}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newAPIClient(t)
			rec := c.do(http.MethodPost, "/items", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, detailOf(t, rec))
		})
	}
}

func TestServer_Filter(t *testing.T) {
	c := newAPIClient(t)

	for _, path := range []string{"/items/filter", "/items/filter/"} {
		rec := c.do(http.MethodGet, path+"?price_from=150&price_to=250", "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		items := decode[[]Item](t, rec)
		require.Len(t, items, 1)
		assert.Equal(t, int64(2), items[0].ID)
	}

	rec := c.do(http.MethodGet, "/items/filter?discount_to=8", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = c.do(http.MethodGet, "/items/filter?price_from=cheap", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = c.do(http.MethodGet, "/items/filter?price_from=NaN&price_to=NaN", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServer_Sale(t *testing.T) {
	c := newAPIClient(t)

	rec := c.do(http.MethodPut, "/sale/?id=1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[SaleResult](t, rec)
	assert.Equal(t, MessageSold, res.Message)
	assert.Equal(t, 9, res.Items[0].Quantity)

	rec = c.do(http.MethodPut, "/sale?id=1&id=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[SaleResult](t, rec)
	require.Len(t, res.Items, 2)
	assert.Equal(t, 8, res.Items[0].Quantity)
	assert.Equal(t, 4, res.Items[1].Quantity)

	rec = c.do(http.MethodGet, "/sale/1,2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[SaleResult](t, rec)
	assert.Equal(t, 7, res.Items[0].Quantity)
	assert.Equal(t, 3, res.Items[1].Quantity)

	rec = c.do(http.MethodPut, "/sale/?id=100", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Item not found", detailOf(t, rec))

	rec = c.do(http.MethodPut, "/sale/", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = c.do(http.MethodGet, "/sale/1,x", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServer_SaleInsufficientStock(t *testing.T) {
	c := newAPIClient(t)

	rec := c.do(http.MethodPut, "/items/1", `{"title":"Book 1","description":"Book 1 description","category":"Book","price":100,"quantity":0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPut, "/sale/?id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[SaleResult](t, rec)
	assert.Equal(t, MessageInsufficientStock, res.Message)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(1), res.Items[0].ID)
	assert.Equal(t, 0, res.Items[0].Quantity)
}

func TestServer_Increment(t *testing.T) {
	c := newAPIClient(t)

	rec := c.do(http.MethodPut, "/increment/?id=1&quantity=10", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items := decode[[]Item](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, 20, items[0].Quantity)

	rec = c.do(http.MethodGet, "/increment/1,2/1,5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items = decode[[]Item](t, rec)
	assert.Equal(t, 21, items[0].Quantity)
	assert.Equal(t, 10, items[1].Quantity)

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"unknown id", http.MethodPut, "/increment/?id=100&quantity=10", http.StatusNotFound},
		{"unknown id in batch", http.MethodGet, "/increment/1,100/1,1", http.StatusNotFound},
		{"length mismatch", http.MethodPut, "/increment/?id=1&id=2&quantity=10", http.StatusBadRequest},
		{"zero amount", http.MethodGet, "/increment/1/0", http.StatusBadRequest},
		{"negative amount", http.MethodPut, "/increment?id=1&quantity=-3", http.StatusBadRequest},
		{"non-numeric amount", http.MethodPut, "/increment/?id=1&quantity=ten", http.StatusUnprocessableEntity},
		{"no ids", http.MethodPut, "/increment/", http.StatusUnprocessableEntity},
		{"quantity overflow", http.MethodPut, "/increment/?id=1&quantity=9223372036854775807", http.StatusBadRequest},
		{"batch overflow", http.MethodGet, "/increment/2,1/1,9223372036854775807", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do(tt.method, tt.target, "")
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	// Failed batches left stock untouched
	rec = c.do(http.MethodGet, "/items/1", "")
	assert.Equal(t, 21, decode[Item](t, rec).Quantity)
}

func TestServer_CORS(t *testing.T) {
	c := newAPIClient(t)

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
