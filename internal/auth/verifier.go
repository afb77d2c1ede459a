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

// Package auth implements the HTTP Basic credential gate of the metrics API.
package auth

import (
	"crypto/subtle"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a username/password pair.
type Verifier interface {
	Verify(username, password string) bool
}

// StaticVerifier accepts exactly one configured credential.
type StaticVerifier struct {
	username string
	password string
}

// NewStaticVerifier creates a verifier for a single user. The password may be a bcrypt hash.
func NewStaticVerifier(username, password string) *StaticVerifier {
	return &StaticVerifier{username: username, password: password}
}

// Verify compares both fields in constant time.
func (v *StaticVerifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(v.username), []byte(username)) == 1
	passOK := verifyPassword(v.password, password)
	return userOK && passOK
}

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// compareHash is a variable so tests can observe bcrypt comparisons.
var compareHash = bcrypt.CompareHashAndPassword

// unknownUserHash is compared against when the username does not exist,
// so a miss costs one bcrypt comparison like a hit does.
var unknownUserHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("unodash-unknown-user"), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hash)
})

// IsBcryptHash reports whether s looks like a bcrypt hash.
func IsBcryptHash(s string) bool {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// verifyPassword checks provided against a stored bcrypt hash or plaintext value.
func verifyPassword(saved, provided string) bool {
	if IsBcryptHash(saved) {
		return compareHash([]byte(saved), []byte(provided)) == nil
	}

	// plaintext, constant time compare
	return subtle.ConstantTimeCompare([]byte(saved), []byte(provided)) == 1
}

// HashPassword returns a bcrypt hash suitable for a credentials file.
// A cost of 0 selects bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
