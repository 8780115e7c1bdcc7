/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/carverauto/nodeview/cmd/nodeview/app"
	"github.com/carverauto/nodeview/pkg/version"
)

func main() {
	code, err := run()
	if err != nil {
		log.Printf("Fatal error: %v", err)
	}

	os.Exit(code)
}

func run() (int, error) {
	configPath := flag.String("config", "/etc/nodeview/dashboard.json", "Path to dashboard config file")
	baseURL := flag.String("base-url", "", "Nodes API base URL (overrides config)")
	timeout := flag.Duration("timeout", 0, "Request timeout, 0 for none (overrides config)")
	plain := flag.Bool("plain", false, "Print the node list as plain text and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Banner("nodeview"))

		return app.ExitOK, nil
	}

	opts := app.Options{
		ConfigPath: *configPath,
		BaseURL:    *baseURL,
		Plain:      *plain,
		Stdout:     os.Stdout,
		Interactive: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "config":
			opts.ConfigRequired = true
		case "timeout":
			opts.Timeout = timeout
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, opts)
}
