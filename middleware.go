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
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// LoggerConfig configures the Logger middleware.
type LoggerConfig struct {
	// Logger is the slog.Logger used for output. nil uses slog.Default().
	Logger *slog.Logger

	// Sanitize enables redaction of sensitive path parameters and query
	// parameters in log output. nil means no sanitization.
	Sanitize *SanitizeConfig
}

// Logger provides structured access logging with request id.
func Logger(cfg LoggerConfig) Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var san *Sanitizer
	if cfg.Sanitize != nil {
		san = NewSanitizer(*cfg.Sanitize)
	}

	return func(next Handler) Handler {
		return func(c *Context) {
			id := c.R.Header.Get("X-Request-Id")
			if id == "" {
				id = uuid.NewString()
			}
			c.R = c.R.WithContext(WithRequestID(c.R.Context(), id))
			start := time.Now()
			next(c)
			dur := time.Since(start)
			status := c.status
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				slog.String("id", id),
				slog.String("method", c.R.Method),
				slog.String("path", san.Path(c.R.URL.Path, c.params)),
				slog.String("route", c.RoutePattern()),
				slog.Int("status", status),
				slog.String("duration", dur.String()),
			}
			if q := san.Query(c.R.URL.RawQuery); q != "" {
				attrs = append(attrs, slog.String("query", q))
			}
			if c.err != nil {
				logger.Error("request", append(attrs, slog.Any("err", c.err))...)
				return
			}
			logger.Info("request", attrs...)
		}
	}
}

// Recover gracefully handles panics and returns 500. Install it inside Logger
// so the access log still sees the failed request.
func Recover(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return func(c *Context) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered", slog.Any("err", r), slog.String("stack", string(debug.Stack())))
					c.err = fmt.Errorf("%w: panic: %v", ErrHandlerFault, r)
					c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
				}
			}()
			next(c)
		}
	}
}

// BodyLimit creates a middleware that restricts the maximum size of the
// request body. Reads past maxBytes fail, which BindJSON surfaces as a
// handler fault. A maxBytes of 0 or negative means no limit is enforced.
func BodyLimit(maxBytes int64) Middleware {
	return func(next Handler) Handler {
		return func(c *Context) {
			if maxBytes > 0 {
				c.R.Body = http.MaxBytesReader(c.W, c.R.Body, maxBytes)
			}
			next(c)
		}
	}
}
