/*
 *    Copyright 2025 Jeff Galyan
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package keonk

import (
	"context"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type jwtClaimsKey struct{}

// JWTClaims retrieves the verified claims stored by JWTAuth.
func JWTClaims(ctx context.Context) (jwt.MapClaims, bool) {
	mc, ok := ctx.Value(jwtClaimsKey{}).(jwt.MapClaims)
	return mc, ok
}

// JWTConfig configures the JWTAuth middleware. Only HMAC-signed bearer
// tokens are accepted.
type JWTConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	Skew     time.Duration
}

// JWTAuth rejects requests without a valid bearer token with 401 and stores
// the claims of accepted tokens in the request context.
func JWTAuth(cfg JWTConfig) Middleware {
	if cfg.Skew == 0 {
		cfg.Skew = 30 * time.Second
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithLeeway(cfg.Skew),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	parser := jwt.NewParser(opts...)
	keyfunc := func(*jwt.Token) (any, error) { return cfg.Secret, nil }

	return func(next Handler) Handler {
		return func(c *Context) {
			scheme, tok, found := strings.Cut(c.R.Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || tok == "" {
				unauthorized(c, "missing bearer token")
				return
			}
			claims := jwt.MapClaims{}
			parsed, err := parser.ParseWithClaims(tok, claims, keyfunc)
			if err != nil || !parsed.Valid {
				unauthorized(c, "invalid token")
				return
			}
			c.R = c.R.WithContext(context.WithValue(c.R.Context(), jwtClaimsKey{}, claims))
			next(c)
		}
	}
}

func unauthorized(c *Context, desc string) {
	c.W.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: desc})
}
