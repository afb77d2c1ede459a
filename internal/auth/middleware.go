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
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phuonguno98/unodash/internal/server"
)

// UnauthorizedDetail is the body detail of a rejected request.
const UnauthorizedDetail = "Incorrect username or password"

// Middleware rejects requests whose Basic credentials do not pass v.
func Middleware(v Verifier, realm string, logger *slog.Logger) func(http.Handler) http.Handler {
	challenge := fmt.Sprintf("Basic realm=%q", realm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok || !v.Verify(username, password) {
				logger.Debug("Rejected credentials",
					"path", r.URL.Path,
					"user", username,
					"remote", r.RemoteAddr,
				)
				w.Header().Set("WWW-Authenticate", challenge)
				server.WriteDetail(w, logger, http.StatusUnauthorized, UnauthorizedDetail)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
