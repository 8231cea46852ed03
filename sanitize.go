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
	"net/http"
	"net/url"
	"strings"
)

// SanitizeConfig lists the request fields that are masked before logging.
type SanitizeConfig struct {
	// Params is the list of path parameter names to redact (without ":" prefix).
	Params []string

	// QueryParams is the list of query parameter names to redact.
	QueryParams []string

	// Headers is the list of header names to redact (case-insensitive).
	Headers []string

	// Mask is the replacement string for redacted values. Default: "***".
	Mask string
}

// DefaultSanitizeConfig masks credentials carried in headers.
func DefaultSanitizeConfig() SanitizeConfig {
	return SanitizeConfig{
		Headers: []string{"Authorization", "Cookie", "Proxy-Authorization"},
		Mask:    "***",
	}
}

// Sanitizer redacts request fields for logging. Methods on a nil *Sanitizer
// return inputs unchanged.
type Sanitizer struct {
	mask    string
	params  map[string]struct{}
	query   map[string]struct{}
	headers map[string]struct{} // canonicalized keys
}

// NewSanitizer returns nil if the config redacts nothing.
func NewSanitizer(cfg SanitizeConfig) *Sanitizer {
	s := &Sanitizer{
		mask:    cfg.Mask,
		params:  toSet(cfg.Params, nil),
		query:   toSet(cfg.QueryParams, nil),
		headers: toSet(cfg.Headers, http.CanonicalHeaderKey),
	}
	if len(s.params) == 0 && len(s.query) == 0 && len(s.headers) == 0 {
		return nil
	}
	if s.mask == "" {
		s.mask = "***"
	}
	return s
}

// Path masks the segments of path holding a redacted param value.
func (s *Sanitizer) Path(path string, params map[string]string) string {
	if s == nil || len(s.params) == 0 {
		return path
	}
	values := make(map[string]struct{})
	for name := range s.params {
		if v := params[name]; v != "" {
			values[v] = struct{}{}
		}
	}
	if len(values) == 0 {
		return path
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if _, ok := values[seg]; ok {
			segments[i] = s.mask
		}
	}
	return strings.Join(segments, "/")
}

// Query masks the values of redacted query parameters. Unparseable queries
// are returned unchanged.
func (s *Sanitizer) Query(rawQuery string) string {
	if s == nil || len(s.query) == 0 || rawQuery == "" {
		return rawQuery
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return rawQuery
	}
	changed := false
	for key := range s.query {
		vals, ok := q[key]
		if !ok {
			continue
		}
		for i := range vals {
			vals[i] = s.mask
		}
		changed = true
	}
	if !changed {
		return rawQuery
	}
	return q.Encode()
}

// Headers returns a clone of h with redacted values masked. A nil Sanitizer
// returns h itself.
func (s *Sanitizer) Headers(h http.Header) http.Header {
	if s == nil || len(s.headers) == 0 {
		return h
	}
	clone := h.Clone()
	for key := range s.headers {
		for i := range clone[key] {
			clone[key][i] = s.mask
		}
	}
	return clone
}

func toSet(items []string, norm func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if norm != nil {
			item = norm(item)
		}
		set[item] = struct{}{}
	}
	return set
}
