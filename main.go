package main

import (
	"log"
	"os"

	"github.com/Vznu7/one-piece-web-application/config"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

func main() {
	log.Println("✅ Starting application...")

	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	app := &cli.App{
		Name:  "storefront",
		Usage: "Clothing storefront API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML config file path (environment variables override it)",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Create or update database tables",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "Create the starter users and catalogue",
				Action: seed,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.Load(c.String("config"))
}

func migrate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	if err := s.Migrate(c.Context); err != nil {
		return err
	}
	log.Println("✅ Migration completed")
	return nil
}

func seed(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	if err := s.Migrate(c.Context); err != nil {
		return err
	}
	return store.Seed(c.Context, s)
}
