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

package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/jrgalyan/keonk"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to the YAML config file",
	Value:   "keonk.yaml",
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:     "keonk",
		Usage:    "Serve the keonk resource API",
		Writer:   out,
		Commands: []*cli.Command{serveCommand, routesCommand},
	}
}

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the HTTP server",
	Flags: []cli.Flag{
		configFlag,
		&cli.StringFlag{Name: "addr", Usage: "listen address, overrides server.addr"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := keonk.LoadConfig(c.String("config"))
		if err != nil {
			return err
		}
		if addr := c.String("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		logger, err := cfg.Log.NewLogger(os.Stderr)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		router, _ := keonk.NewApp(cfg, logger, nil)
		return keonk.NewServer(cfg.Server, router, logger).Start(c.Context)
	},
}

var routesCommand = &cli.Command{
	Name:  "routes",
	Usage: "Print the route table in match order",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		cfg, err := keonk.LoadConfig(c.String("config"))
		if err != nil {
			return err
		}
		router, _ := keonk.NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
		return printRoutes(c.App.Writer, router.Routes())
	},
}

func printRoutes(w io.Writer, routes []keonk.Route) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tSTATUS\tREDIRECT")
	for _, rt := range routes {
		status := rt.Effects.Status
		if status == 0 {
			status = http.StatusOK
		}
		redirect := "-"
		if rd := rt.Effects.Redirect; rd != nil {
			status = rd.Status
			redirect = rd.URL
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", rt.Method, rt.Pattern, status, redirect)
	}
	return tw.Flush()
}
