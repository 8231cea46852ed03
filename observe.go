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
	"log/slog"
	"net/http"
)

// RequestObserver receives request metadata from endpoints that report it.
type RequestObserver interface {
	ObserveRequest(ctx context.Context, method, url string, headers http.Header)
}

// ObserverFunc adapts a function to RequestObserver.
type ObserverFunc func(ctx context.Context, method, url string, headers http.Header)

func (f ObserverFunc) ObserveRequest(ctx context.Context, method, url string, headers http.Header) {
	f(ctx, method, url, headers)
}

// SlogObserver writes request metadata to a slog.Logger with sensitive
// headers masked.
type SlogObserver struct {
	logger *slog.Logger
	san    *Sanitizer
}

// NewSlogObserver returns an observer logging to logger (slog.Default() when nil).
func NewSlogObserver(logger *slog.Logger, cfg SanitizeConfig) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger, san: NewSanitizer(cfg)}
}

func (o *SlogObserver) ObserveRequest(ctx context.Context, method, url string, headers http.Header) {
	attrs := []any{
		slog.String("method", method),
		slog.String("url", url),
		slog.Any("headers", o.san.Headers(headers)),
	}
	if id, ok := RequestID(ctx); ok {
		attrs = append(attrs, slog.String("id", id))
	}
	o.logger.InfoContext(ctx, "keonk request", attrs...)
}
