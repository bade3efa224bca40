// Command signal-dashboard serves signal performance dashboards for the
// Broward intersections and manages the SQLite store they can be served from.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/signal.report/internal/config"
	"github.com/banshee-data/signal.report/internal/db"
	"github.com/banshee-data/signal.report/internal/fsutil"
	"github.com/banshee-data/signal.report/internal/version"
)

var (
	configPath = flag.String("config", "", "Path to a JSON or YAML config file (default "+config.DefaultConfigPath+" when present)")
	listen     = flag.String("listen", "", "Listen address (overrides config)")
	dataDir    = flag.String("data-dir", "", "Directory holding the CSV exports (overrides config)")
	dbPath     = flag.String("db", "", "SQLite database path (overrides config)")
	source     = flag.String("source", "", "Where serve reads tables from: csv or sqlite (overrides config)")
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: signal-dashboard [flags] <command> [args]\n\n")
	fmt.Fprintf(out, "Commands:\n")
	fmt.Fprintf(out, "  serve              Serve the dashboard (default)\n")
	fmt.Fprintf(out, "  import             Load the CSV exports into the database\n")
	fmt.Fprintf(out, "  migrate <action>   Manage the database schema (see 'migrate help')\n")
	fmt.Fprintf(out, "  plot [flags]       Write a movement delay PNG\n")
	fmt.Fprintf(out, "  version            Print the build version\n\n")
	fmt.Fprintf(out, "Flags:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	path := *configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath); err == nil {
			path = config.DefaultConfigPath
		}
	}
	cfg, err := loadConfig(path, overrides{
		Listen: *listen, DataDir: *dataDir, DBPath: *dbPath, Source: *source,
	})
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	command, args := "serve", []string(nil)
	if flag.NArg() > 0 {
		command, args = flag.Arg(0), flag.Args()[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case "serve":
		err = runServe(ctx, cfg, fsutil.OSFileSystem{})
	case "import":
		err = runImport(ctx, cfg, fsutil.OSFileSystem{})
	case "migrate":
		err = db.RunMigrateCommand(os.Stdout, args, requireDBPath(cfg))
	case "plot":
		err = runPlot(ctx, cfg, fsutil.OSFileSystem{}, args)
	case "version":
		fmt.Println(version.Get())
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}

func requireDBPath(cfg *config.Config) string {
	p := cfg.GetDBPath()
	if p == "" {
		log.Fatal("a database path is required: set db_path in the config or pass -db")
	}
	return p
}
