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

import "fmt"

// SecurityHeadersConfig configures the SecurityHeaders middleware. Zero
// values omit the corresponding header.
type SecurityHeadersConfig struct {
	// HSTSMaxAge is the Strict-Transport-Security max-age in seconds.
	HSTSMaxAge            int    `yaml:"hstsMaxAge"`
	HSTSIncludeSubdomains bool   `yaml:"hstsIncludeSubdomains"`
	ContentTypeNosniff    bool   `yaml:"contentTypeNosniff"`
	FrameOption           string `yaml:"frameOption"`
	ReferrerPolicy        string `yaml:"referrerPolicy"`
}

// DefaultSecurityHeadersConfig suits a plain-HTTP JSON API: no HSTS, no
// sniffing, no framing.
func DefaultSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		ContentTypeNosniff: true,
		FrameOption:        "DENY",
		ReferrerPolicy:     "no-referrer",
	}
}

func (cfg SecurityHeadersConfig) headers() []Header {
	var hs []Header
	if cfg.HSTSMaxAge > 0 {
		v := fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			v += "; includeSubDomains"
		}
		hs = append(hs, Header{Key: "Strict-Transport-Security", Value: v})
	}
	if cfg.ContentTypeNosniff {
		hs = append(hs, Header{Key: "X-Content-Type-Options", Value: "nosniff"})
	}
	if cfg.FrameOption != "" {
		hs = append(hs, Header{Key: "X-Frame-Options", Value: cfg.FrameOption})
	}
	if cfg.ReferrerPolicy != "" {
		hs = append(hs, Header{Key: "Referrer-Policy", Value: cfg.ReferrerPolicy})
	}
	return hs
}

// SecurityHeaders sets the configured headers on every response, including
// redirects and 404s. Route-declared headers run later and win on conflict.
func SecurityHeaders(cfg SecurityHeadersConfig) Middleware {
	hs := cfg.headers()
	return func(next Handler) Handler {
		return func(c *Context) {
			for _, h := range hs {
				c.SetHeader(h.Key, h.Value)
			}
			next(c)
		}
	}
}
