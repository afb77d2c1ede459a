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

package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachingVerifier remembers successful verifications for a TTL.
// Failures are never cached.
type CachingVerifier struct {
	next  Verifier
	cache *cache.Cache
}

// NewCachingVerifier wraps next. A ttl <= 0 returns a verifier that always delegates.
func NewCachingVerifier(next Verifier, ttl time.Duration) *CachingVerifier {
	cv := &CachingVerifier{next: next}
	if ttl > 0 {
		cv.cache = cache.New(ttl, 2*ttl)
	}
	return cv
}

// Verify returns a cached positive result or asks the wrapped verifier.
func (c *CachingVerifier) Verify(username, password string) bool {
	if c.cache == nil {
		return c.next.Verify(username, password)
	}

	key := cacheKey(username, password)
	if _, found := c.cache.Get(key); found {
		return true
	}

	if !c.next.Verify(username, password) {
		return false
	}
	c.cache.SetDefault(key, struct{}{})
	return true
}

// Flush drops every cached credential.
func (c *CachingVerifier) Flush() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

func cacheKey(username, password string) string {
	sum := sha256.Sum256([]byte(username + "\x00" + password))
	return hex.EncodeToString(sum[:])
}
