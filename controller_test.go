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

package keonk_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	k "github.com/jrgalyan/keonk"
)

type observed struct {
	method  string
	url     string
	headers http.Header
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

var _ = Describe("Keonk API", func() {
	var (
		r    *k.Router
		repo *k.Repository
		seen []observed
	)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Authorization", "Bearer secret-ish")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	BeforeEach(func() {
		seen = nil
		obs := k.ObserverFunc(func(_ context.Context, method, url string, headers http.Header) {
			seen = append(seen, observed{method: method, url: url, headers: headers})
		})
		r, repo = k.NewApp(k.DefaultConfig(), quietLogger(), obs)
	})

	Describe("/keonk", func() {
		It("accepts creates with 202 and no-store regardless of body", func() {
			for _, body := range []string{"", `{"x":1}`, "not json"} {
				rr := do(http.MethodPost, "/keonk", body)
				Expect(rr.Code).To(Equal(http.StatusAccepted))
				Expect(rr.Header().Get("Cache-Control")).To(Equal("no-store"))
				Expect(rr.Body.String()).To(Equal("Membuat keonk baru"))
			}
		})

		It("echoes the id on update and delete", func() {
			rr := do(http.MethodPut, "/keonk/17", `{"a":1}`)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.String()).To(Equal("Keonk dengan ID 17 telah diperbarui"))

			rr = do(http.MethodDelete, "/keonk/17", "")
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.String()).To(Equal("Keonk dengan ID 17 telah dihapus"))
			Expect(repo.Len()).To(BeZero())
		})

		It("reports request metadata on list", func() {
			rr := do(http.MethodGet, "/keonk?x=1", "")
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.String()).To(Equal("Keonk response"))
			Expect(seen).To(HaveLen(1))
			Expect(seen[0].method).To(Equal(http.MethodGet))
			Expect(seen[0].url).To(Equal("/keonk?x=1"))
			Expect(seen[0].headers.Get("Authorization")).To(Equal("Bearer secret-ish"))
		})

		DescribeTable("routes everything under abcd/ to the wildcard",
			func(target string) {
				rr := do(http.MethodGet, target, "")
				Expect(rr.Code).To(Equal(http.StatusOK))
				Expect(rr.Body.String()).To(Equal("This route uses a wildcard"))
			},
			Entry("one segment", "/keonk/abcd/x"),
			Entry("nested", "/keonk/abcd/y/z"),
			Entry("empty suffix", "/keonk/abcd/"),
		)

		It("redirects portfolio permanently instead of binding it as an id", func() {
			rr := do(http.MethodGet, "/keonk/portfolio", "")
			Expect(rr.Code).To(Equal(http.StatusMovedPermanently))
			Expect(rr.Header().Get("Location")).To(Equal(k.DefaultLinks().Portfolio))
			Expect(rr.Body.Len()).To(BeZero())
		})

		It("redirects docs unless version 5 is requested", func() {
			rr := do(http.MethodGet, "/keonk/docs", "")
			Expect(rr.Code).To(Equal(http.StatusFound))
			Expect(rr.Header().Get("Location")).To(Equal(k.DefaultLinks().Docs))

			rr = do(http.MethodGet, "/keonk/docs?version=5", "")
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Header().Get("Location")).To(BeEmpty())
			var link k.DocsLink
			Expect(json.Unmarshal(rr.Body.Bytes(), &link)).To(Succeed())
			Expect(link.URL).To(Equal(k.DefaultLinks().DocsV5))

			rr = do(http.MethodGet, "/keonk/docs?version=4", "")
			Expect(rr.Code).To(Equal(http.StatusFound))
		})

		It("echoes ids without touching the repository", func() {
			repo.Create(k.Keonk{"id": "42"})
			rr := do(http.MethodGet, "/keonk/42", "")
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.String()).To(ContainSubstring("42"))
			Expect(repo.FindAll()).To(Equal([]k.Keonk{{"id": "42"}}))
		})

		It("echoes ids holding escaped slashes as one segment", func() {
			rr := do(http.MethodGet, "/keonk/a%2Fb", "")
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.String()).To(Equal("This action returns a #a/b keonk"))
		})

		It("sets the configured security headers on every response", func() {
			for _, target := range []string{"/keonk", "/keonk/portfolio", "/nowhere"} {
				rr := do(http.MethodGet, target, "")
				Expect(rr.Header().Get("X-Content-Type-Options")).To(Equal("nosniff"), target)
				Expect(rr.Header().Get("X-Frame-Options")).To(Equal("DENY"), target)
			}
			Expect(do(http.MethodPost, "/keonk", "").Header().Get("Cache-Control")).To(Equal("no-store"))

			cfg := k.DefaultConfig()
			cfg.Security = k.SecurityHeadersConfig{}
			r, repo = k.NewApp(cfg, quietLogger(), nil)
			Expect(do(http.MethodGet, "/keonk", "").Header().Get("X-Content-Type-Options")).To(BeEmpty())
		})

		It("answers unknown methods with 404", func() {
			Expect(do(http.MethodPatch, "/keonk/1", "").Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodGet, "/elsewhere", "").Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("/keonks", func() {
		It("lists an empty collection as an empty array", func() {
			rr := do(http.MethodGet, "/keonks", "")
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.String()).To(MatchJSON(`[]`))
		})

		It("stores bodies verbatim and lists them in order", func() {
			rr := do(http.MethodPost, "/keonks", `{"name":"a","age":3}`)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.Len()).To(BeZero())
			do(http.MethodPost, "/keonks", `{"name":"b","tags":["x"],"big":12345678901234567890}`)

			rr = do(http.MethodGet, "/keonks", "")
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.String()).To(MatchJSON(`[{"name":"a","age":3},{"name":"b","tags":["x"],"big":12345678901234567890}]`))
			Expect(repo.Len()).To(Equal(2))
		})

		It("is idempotent across repeated reads", func() {
			do(http.MethodPost, "/keonks", `{"n":1}`)
			first := do(http.MethodGet, "/keonks", "").Body.String()
			second := do(http.MethodGet, "/keonks", "").Body.String()
			Expect(second).To(Equal(first))
		})

		It("stores an empty record for an empty body", func() {
			Expect(do(http.MethodPost, "/keonks", "").Code).To(Equal(http.StatusOK))

			req := httptest.NewRequest(http.MethodPost, "/keonks", http.NoBody)
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(repo.FindAll()).To(Equal([]k.Keonk{{}, {}}))
		})

		DescribeTable("fails malformed JSON bodies with 500 and stores nothing",
			func(body string) {
				rr := do(http.MethodPost, "/keonks", body)
				Expect(rr.Code).To(Equal(http.StatusInternalServerError))
				Expect(rr.Body.String()).To(ContainSubstring("internal server error"))
				Expect(repo.Len()).To(BeZero())
			},
			Entry("truncated object", `{"name":`),
			Entry("trailing garbage", `{"a":1} trailing junk`),
			Entry("second value", `{"a":1}{"b":2}`),
			Entry("not an object", `[1,2]`),
		)

		It("stores an empty record for bodies not declared as JSON", func() {
			for _, ct := range []string{"text/plain", ""} {
				req := httptest.NewRequest(http.MethodPost, "/keonks", strings.NewReader("hello"))
				if ct != "" {
					req.Header.Set("Content-Type", ct)
				}
				rr := httptest.NewRecorder()
				r.ServeHTTP(rr, req)
				Expect(rr.Code).To(Equal(http.StatusOK))
			}
			Expect(repo.FindAll()).To(Equal([]k.Keonk{{}, {}}))
		})

		It("accepts JSON media types with parameters and +json suffixes", func() {
			for _, ct := range []string{"application/json; charset=utf-8", "application/merge-patch+json"} {
				req := httptest.NewRequest(http.MethodPost, "/keonks", strings.NewReader(`{"ct":"yes"}`))
				req.Header.Set("Content-Type", ct)
				r.ServeHTTP(httptest.NewRecorder(), req)
			}
			Expect(repo.FindAll()).To(Equal([]k.Keonk{{"ct": "yes"}, {"ct": "yes"}}))
		})

		It("fails bodies over the configured limit", func() {
			cfg := k.DefaultConfig()
			cfg.MaxBodyBytes = 16
			r, repo = k.NewApp(cfg, quietLogger(), nil)
			rr := do(http.MethodPost, "/keonks", `{"name":"much too long for sixteen bytes"}`)
			Expect(rr.Code).To(Equal(http.StatusInternalServerError))
			Expect(repo.Len()).To(BeZero())
		})
	})

	Describe("write guard", func() {
		secret := "guard-secret"

		BeforeEach(func() {
			cfg := k.DefaultConfig()
			cfg.Auth.JWTSecret = secret
			r, repo = k.NewApp(cfg, quietLogger(), nil)
		})

		It("rejects mutations without a valid token but leaves reads open", func() {
			Expect(do(http.MethodPost, "/keonks", `{"a":1}`).Code).To(Equal(http.StatusUnauthorized))
			Expect(do(http.MethodPost, "/keonk", "").Code).To(Equal(http.StatusUnauthorized))
			Expect(do(http.MethodDelete, "/keonk/1", "").Code).To(Equal(http.StatusUnauthorized))
			Expect(do(http.MethodGet, "/keonks", "").Code).To(Equal(http.StatusOK))
			Expect(do(http.MethodGet, "/keonk/1", "").Code).To(Equal(http.StatusOK))
			Expect(repo.Len()).To(BeZero())
		})

		It("accepts mutations with a signed token", func() {
			tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": "tester",
				"exp": time.Now().Add(time.Minute).Unix(),
			})
			signed, err := tok.SignedString([]byte(secret))
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodPost, "/keonks", strings.NewReader(`{"a":1}`))
			req.Header.Set("Authorization", "Bearer "+signed)
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(repo.Len()).To(Equal(1))
		})
	})
})
