package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"yashubustudio/launchersearch/internal/app"
)

func main() {
	var opts app.Options
	flag.StringVar(&opts.ConfigPath, "config", "", "Path to config.json or config.toml (default: ./config.json)")
	flag.StringVar(&opts.CatalogPath, "catalog", "", "CSV/TSV/JSON file listing the launchable apps")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [--config FILE] [--catalog FILE]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.ConfigPath = strings.TrimSpace(opts.ConfigPath)
	opts.CatalogPath = strings.TrimSpace(opts.CatalogPath)
	opts.Logger = log.New(os.Stderr, "launchersearch: ", log.LstdFlags)
	if err := app.Run(opts); err != nil {
		opts.Logger.Fatalf("%v", err)
	}
}
