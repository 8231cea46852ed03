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
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Links are the external URLs the redirect routes point at.
type Links struct {
	Portfolio string `yaml:"portfolio"`
	Docs      string `yaml:"docs"`
	DocsV5    string `yaml:"docsV5"`
}

// DefaultLinks returns the stock redirect targets.
func DefaultLinks() Links {
	return Links{
		Portfolio: "https://nestjs.com",
		Docs:      "https://docs.nestjs.com",
		DocsV5:    "https://docs.nestjs.com/v5/",
	}
}

// DocsLink is the body returned by /keonk/docs in place of the redirect.
type DocsLink struct {
	URL string `json:"url"`
}

// KeonkController serves the /keonk demo routes. None of them touch the
// repository; :id values are echoed back.
type KeonkController struct {
	links    Links
	observer RequestObserver
}

func NewKeonkController(links Links, observer RequestObserver) *KeonkController {
	return &KeonkController{links: links, observer: observer}
}

// Mount registers the routes in match order. guard wraps the mutating routes.
func (k *KeonkController) Mount(r *Router, guard ...Middleware) {
	g := r.Group("/keonk")
	g.POST("/", k.create, HTTPCode(http.StatusAccepted), WithHeader("Cache-Control", "no-store"), WithMiddleware(guard...))
	g.PUT("/:id", k.update, WithMiddleware(guard...))
	g.DELETE("/:id", k.remove, WithMiddleware(guard...))
	g.GET("/", k.findAll)
	g.GET("/abcd/*", k.wildcard)
	g.GET("/portfolio", k.portfolio, RedirectTo(k.links.Portfolio, http.StatusMovedPermanently))
	g.GET("/docs", k.docs, RedirectTo(k.links.Docs, http.StatusFound))
	g.GET("/:id", k.findOne)
}

func (k *KeonkController) create(*Context) (any, error) {
	return "Membuat keonk baru", nil
}

func (k *KeonkController) update(c *Context) (any, error) {
	return fmt.Sprintf("Keonk dengan ID %s telah diperbarui", c.Param("id")), nil
}

func (k *KeonkController) remove(c *Context) (any, error) {
	return fmt.Sprintf("Keonk dengan ID %s telah dihapus", c.Param("id")), nil
}

func (k *KeonkController) findAll(c *Context) (any, error) {
	if k.observer != nil {
		k.observer.ObserveRequest(c.Context(), c.R.Method, c.R.URL.RequestURI(), c.R.Header)
	}
	return "Keonk response", nil
}

func (k *KeonkController) wildcard(*Context) (any, error) {
	return "This route uses a wildcard", nil
}

func (k *KeonkController) portfolio(*Context) (any, error) {
	return nil, nil
}

func (k *KeonkController) docs(c *Context) (any, error) {
	if c.Query("version") == "5" {
		return DocsLink{URL: k.links.DocsV5}, nil
	}
	return nil, nil
}

func (k *KeonkController) findOne(c *Context) (any, error) {
	return fmt.Sprintf("This action returns a #%s keonk", c.Param("id")), nil
}

// KeonksController exposes the repository as /keonks.
type KeonksController struct {
	repo *Repository
}

func NewKeonksController(repo *Repository) *KeonksController {
	return &KeonksController{repo: repo}
}

func (k *KeonksController) Mount(r *Router, guard ...Middleware) {
	g := r.Group("/keonks")
	g.POST("/", k.create, WithMiddleware(guard...))
	g.GET("/", k.findAll)
}

// create stores the body as sent. Bodies that are empty or not declared as
// JSON store an empty record.
func (k *KeonksController) create(c *Context) (any, error) {
	var rec Keonk
	if c.IsJSON() {
		if err := c.BindJSON(&rec); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode keonk: %w", err)
		}
	}
	if rec == nil {
		rec = Keonk{}
	}
	k.repo.Create(rec)
	return nil, nil
}

func (k *KeonksController) findAll(*Context) (any, error) {
	return k.repo.FindAll(), nil
}
