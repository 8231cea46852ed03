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
	"net/url"
	"strings"
)

// pattern is a parsed route path. Segments beginning with ":" bind a single
// path segment; a trailing "*" matches everything after the preceding "/".
type pattern struct {
	raw      string
	segs     []string
	wildcard bool
}

func parsePattern(p string) pattern {
	if p == "" || p[0] != '/' {
		panic("keonk: path must start with /")
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	segs := strings.Split(p[1:], "/")
	pt := pattern{raw: p}
	for i, s := range segs {
		if s == "*" {
			if i != len(segs)-1 {
				panic("keonk: wildcard must be the last segment in " + p)
			}
			pt.wildcard = true
			segs = segs[:i]
			break
		}
		if s == ":" {
			panic("keonk: unnamed param in " + p)
		}
	}
	pt.segs = segs
	return pt
}

func isParam(seg string) bool { return strings.HasPrefix(seg, ":") }

// match reports whether the escaped request path matches and returns the
// bound params, unescaped. Matching escaped segments keeps "%2F" inside a
// single segment.
func (p pattern) match(escapedPath string) (map[string]string, bool) {
	if escapedPath == "" || escapedPath[0] != '/' {
		return nil, false
	}
	if !p.wildcard && len(escapedPath) > 1 && strings.HasSuffix(escapedPath, "/") {
		escapedPath = escapedPath[:len(escapedPath)-1]
	}
	parts := strings.Split(escapedPath[1:], "/")
	if p.wildcard {
		if len(parts) <= len(p.segs) {
			return nil, false
		}
	} else if len(parts) != len(p.segs) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range p.segs {
		part, err := url.PathUnescape(parts[i])
		if err != nil {
			return nil, false
		}
		if isParam(seg) {
			if part == "" {
				return nil, false
			}
			params[seg[1:]] = part
			continue
		}
		if seg != part {
			return nil, false
		}
	}
	if p.wildcard {
		rest, err := url.PathUnescape(strings.Join(parts[len(p.segs):], "/"))
		if err != nil {
			return nil, false
		}
		params["*"] = rest
	}
	return params, true
}

// covers reports whether every path matched by o is also matched by p, in
// which case registering o after p leaves o unreachable.
func (p pattern) covers(o pattern) bool {
	if p.wildcard {
		if o.wildcard {
			if len(o.segs) < len(p.segs) {
				return false
			}
		} else if len(o.segs) <= len(p.segs) {
			return false
		}
	} else if o.wildcard || len(o.segs) != len(p.segs) {
		return false
	}
	for i, seg := range p.segs {
		if isParam(seg) {
			if o.segs[i] == "" {
				return false
			}
			continue
		}
		if isParam(o.segs[i]) || seg != o.segs[i] {
			return false
		}
	}
	return true
}

func (p pattern) String() string { return p.raw }
