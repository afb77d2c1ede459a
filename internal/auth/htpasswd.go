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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// HtpasswdVerifier checks credentials against "user:secret" lines.
// A secret with a bcrypt prefix is compared as a hash, anything else as plaintext.
type HtpasswdVerifier struct {
	users map[string]string
}

// LoadHtpasswd reads a credentials file.
func LoadHtpasswd(path string) (*HtpasswdVerifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening credentials file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	v, err := ParseHtpasswd(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// ParseHtpasswd reads "user:secret" lines. Blank lines and lines starting with '#' are skipped.
func ParseHtpasswd(r io.Reader) (*HtpasswdVerifier, error) {
	users := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		user, secret, ok := strings.Cut(line, ":")
		if !ok || user == "" || secret == "" {
			return nil, fmt.Errorf("line %d: expected <user>:<password>", lineNo)
		}
		if _, dup := users[user]; dup {
			return nil, fmt.Errorf("line %d: duplicate user %q", lineNo, user)
		}
		users[user] = secret
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users defined")
	}

	return &HtpasswdVerifier{users: users}, nil
}

// Verify looks up the user and checks the password.
func (v *HtpasswdVerifier) Verify(username, password string) bool {
	saved, ok := v.users[username]
	if !ok {
		verifyPassword(unknownUserHash(), password)
		return false
	}
	return verifyPassword(saved, password)
}

// Len returns the number of known users.
func (v *HtpasswdVerifier) Len() int {
	return len(v.users)
}
