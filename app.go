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

import "log/slog"

// NewApp builds the router for cfg: middleware first, then the /keonk and
// /keonks controllers. observer receives GET /keonk metadata; nil logs it
// through logger.
func NewApp(cfg Config, logger *slog.Logger, observer RequestObserver) (*Router, *Repository) {
	if logger == nil {
		logger = slog.Default()
	}
	san := SanitizeConfig{Headers: cfg.RedactHeaders}
	if observer == nil {
		observer = NewSlogObserver(logger, san)
	}

	r := New()
	r.MaxBodySize = cfg.MaxBodyBytes
	r.Use(
		Logger(LoggerConfig{Logger: logger}),
		Recover(logger),
		SecurityHeaders(cfg.Security),
		BodyLimit(cfg.MaxBodyBytes),
	)

	var guard []Middleware
	if cfg.Auth.JWTSecret != "" {
		guard = append(guard, JWTAuth(JWTConfig{
			Secret:   []byte(cfg.Auth.JWTSecret),
			Issuer:   cfg.Auth.Issuer,
			Audience: cfg.Auth.Audience,
		}))
	}

	repo := NewRepository()
	NewKeonkController(cfg.Links, observer).Mount(r, guard...)
	NewKeonksController(repo).Mount(r, guard...)
	return r, repo
}
