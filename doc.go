// Package keonk serves the keonk resource API on top of net/http.
//
// Routing is an explicit, ordered table. Each route declares its method,
// pattern and response effects (status, fixed headers, redirect), and the
// first route of the request's method whose pattern matches wins:
//
//	r := keonk.New()
//	g := r.Group("/keonk")
//	g.POST("/", create, keonk.HTTPCode(http.StatusAccepted), keonk.WithHeader("Cache-Control", "no-store"))
//	g.GET("/portfolio", noop, keonk.RedirectTo("https://nestjs.com", http.StatusMovedPermanently))
//	g.GET("/:id", findOne)
//
// Registering a route that an earlier route of the same method already fully
// matches panics, so /keonk/portfolio must come before /keonk/:id.
//
// Stored keonks live in a Repository for the lifetime of the process.
package keonk
