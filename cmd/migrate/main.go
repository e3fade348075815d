// Command migrate applies database migrations for chatlink.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"

	dbembed "github.com/chatlinkhq/chatlink/db"
	"github.com/chatlinkhq/chatlink/internal/config"
	"github.com/chatlinkhq/chatlink/internal/db"
	"github.com/chatlinkhq/chatlink/internal/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to config.toml")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-config path] <up|down|version|force N>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)
	args := flag.Args()[1:]

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	migrations, err := fs.Sub(dbembed.MigrationsFS, "migrations")
	if err != nil {
		logger.Error("migrations fs", "error", err)
		os.Exit(1)
	}
	if err := db.RunMigrate(logger.L, cfg.Postgres, migrations, command, args); err != nil {
		logger.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}
