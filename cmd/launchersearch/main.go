package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"yashubustudio/launchersearch/catalog"
	"yashubustudio/launchersearch/embedding"
	"yashubustudio/launchersearch/enhancer"
	"yashubustudio/launchersearch/internal/app"
	"yashubustudio/launchersearch/internal/server"
	"yashubustudio/launchersearch/lexical"
	"yashubustudio/launchersearch/subword"
)

func main() {
	logger := log.New(os.Stderr, "launchersearch: ", log.LstdFlags)
	if err := newApp(os.Stdout, logger).Run(os.Args); err != nil {
		logger.Fatalf("%v", err)
	}
}

func newApp(out io.Writer, logger *log.Logger) *cli.App {
	catalogFlag := &cli.StringFlag{
		Name:     "catalog",
		Usage:    "CSV/TSV/JSON file listing the launchable apps",
		Required: true,
	}
	return &cli.App{
		Name:      "launchersearch",
		Usage:     "Multi-script launcher search (kana, romaji, Hangul, choseong)",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (.json or .toml)",
				Value:   "config.json",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Aliases:   []string{"s"},
				Usage:     "Rank the catalog for a query",
				ArgsUsage: "QUERY",
				Flags: []cli.Flag{
					catalogFlag,
					&cli.BoolFlag{Name: "rerank", Usage: "Apply the semantic reranker"},
					&cli.StringSliceFlag{Name: "hint", Usage: "Conversion candidate for the query (repeatable)"},
				},
				Action: func(c *cli.Context) error { return runSearch(c, out, logger) },
			},
			{
				Name:      "variants",
				Usage:     "Print the query variants used for matching",
				ArgsUsage: "QUERY",
				Action: func(c *cli.Context) error {
					query, err := queryArg(c)
					if err != nil {
						return err
					}
					for _, v := range lexical.BuildVariants(query).Values() {
						fmt.Fprintln(out, v)
					}
					return nil
				},
			},
			{
				Name:      "tokenize",
				Usage:     "Encode text with a tokenizer.json vocabulary",
				ArgsUsage: "TEXT",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "vocab", Usage: "tokenizer.json path", Required: true},
					&cli.IntFlag{Name: "max-len", Usage: "Sequence length", Value: embedding.DefaultMaxSeqLen},
					&cli.StringFlag{Name: "backend", Usage: "builtin or hf", Value: enhancer.TokenizerBuiltin},
				},
				Action: func(c *cli.Context) error { return runTokenize(c, out) },
			},
			{
				Name:  "serve",
				Usage: "Serve search over HTTP",
				Flags: []cli.Flag{
					catalogFlag,
					&cli.StringFlag{Name: "addr", Usage: "Listen address", Value: ":8080"},
					&cli.Float64Flag{Name: "rate", Usage: "Requests per second (0 disables limiting)", Value: 50},
					&cli.IntFlag{Name: "burst", Usage: "Rate limiter burst", Value: 100},
					&cli.BoolFlag{Name: "watch", Usage: "Reload the catalog when the file changes", Value: true},
				},
				Action: func(c *cli.Context) error { return runServe(c, logger) },
			},
			{
				Name:  "gui",
				Usage: "Open the desktop search box",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "catalog", Usage: "CSV/TSV/JSON file listing the launchable apps"},
				},
				Action: func(c *cli.Context) error {
					return app.Run(app.Options{
						ConfigPath:  c.String("config"),
						CatalogPath: c.String("catalog"),
						Logger:      logger,
					})
				},
			},
		},
	}
}

func queryArg(c *cli.Context) (string, error) {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return "", errors.New("missing query")
	}
	return query, nil
}

func openEngine(c *cli.Context, logger *log.Logger, semantic bool) (*enhancer.Engine, error) {
	cfg, err := enhancer.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if semantic {
		cfg.Semantic.Enabled = true
	}
	return enhancer.Open(cfg, logger)
}

func runSearch(c *cli.Context, out io.Writer, logger *log.Logger) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	apps, err := catalog.Load(c.String("catalog"))
	if err != nil {
		return err
	}
	engine, err := openEngine(c, logger, c.Bool("rerank"))
	if err != nil {
		return err
	}
	defer engine.Close()

	if hints := c.StringSlice("hint"); len(hints) > 0 {
		engine.Hints().Put(query, hints)
	}
	ranked := engine.Search(query, lexical.Apps(apps))
	if c.Bool("rerank") {
		ranked = engine.Rerank(c.Context, query, ranked)
	}
	for _, s := range ranked {
		fmt.Fprintf(out, "%d\t%s\t%s\n", s.Score, s.Candidate.Title(), s.Candidate.PackageIdentifier())
	}
	return nil
}

func runTokenize(c *cli.Context, out io.Writer) error {
	text := strings.Join(c.Args().Slice(), " ")
	enc, err := subword.Open(c.String("vocab"), c.String("backend"))
	if err != nil {
		return err
	}
	encoded := enc.Encode(text, c.Int("max-len"))
	fmt.Fprintf(out, "input_ids\t%v\n", encoded.InputIDs)
	fmt.Fprintf(out, "attention_mask\t%v\n", encoded.AttentionMask)
	return nil
}

func runServe(c *cli.Context, logger *log.Logger) error {
	path := c.String("catalog")
	apps, err := catalog.Load(path)
	if err != nil {
		return err
	}
	engine, err := openEngine(c, logger, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(engine, apps, logger)
	if c.Bool("watch") {
		go func() {
			if err := srv.WatchCatalog(ctx, path); err != nil && ctx.Err() == nil {
				logger.Printf("catalog watch stopped: %v", err)
			}
		}()
	}
	return srv.ListenAndServe(ctx, c.String("addr"), server.Options{
		RatePerSecond: c.Float64("rate"),
		Burst:         c.Int("burst"),
	})
}
