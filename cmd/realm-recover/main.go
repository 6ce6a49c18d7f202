// Command realm-recover walks both root trees of a database file, compares
// them and scans the file for records neither tree references.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/arloliu/realmrecover"
	"github.com/arloliu/realmrecover/format"
	"github.com/arloliu/realmrecover/internal/logging"
	"github.com/arloliu/realmrecover/report"
)

const version = "0.1.0"

// CLI defines the command-line interface for realm-recover.
type CLI struct {
	File string `arg:"" help:"Database file to recover" type:"existingfile"`

	OutDir    string `name:"out-dir" short:"o" default:"." type:"path" env:"REALM_RECOVER_OUT_DIR" help:"Directory the report artifacts are written to"`
	Compress  string `default:"none" enum:"none,zstd,s2,lz4,xz" env:"REALM_RECOVER_COMPRESS" help:"Artifact compression (${enum})"`
	SQLite    string `name:"sqlite" type:"path" env:"REALM_RECOVER_SQLITE" help:"Also export the run into this SQLite database"`
	MaxDepth  int    `name:"max-depth" default:"1024" env:"REALM_RECOVER_MAX_DEPTH" help:"Nested resolution depth limit"`
	ChunkSize int    `name:"chunk-size" default:"1048576" env:"REALM_RECOVER_CHUNK_SIZE" help:"Signature scan window in bytes"`
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" env:"REALM_RECOVER_LOG_LEVEL" help:"Log level (${enum})"`
	LogFormat string `name:"log-format" default:"auto" enum:"auto,json,text" env:"REALM_RECOVER_LOG_FORMAT" help:"Log format (${enum})"`
	NoColor   bool   `name:"no-color" env:"REALM_RECOVER_NO_COLOR" help:"Disable colored console output"`

	Config  kong.ConfigFlag  `name:"config" short:"c" help:"YAML configuration file"`
	Version kong.VersionFlag `help:"Print version information"`
}

// Run performs one recovery and writes its artifacts.
func (c *CLI) Run(ctx context.Context, stdout io.Writer) error {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logFormat, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(level, logFormat, os.Stderr)
	logger := logging.GetLogger()

	ct, err := format.ParseCompression(c.Compress)
	if err != nil {
		return err
	}

	res, err := realmrecover.RecoverFile(ctx, c.File,
		realmrecover.WithMaxDepth(c.MaxDepth),
		realmrecover.WithChunkSize(c.ChunkSize),
		realmrecover.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("recovery of %s failed: %w", c.File, err)
	}

	roots := res.Header.Roots()
	for i, w := range res.Walks {
		logging.WalkFinished(realmrecover.RootLabel(i), roots[i], len(w.Snapshot.Tables), w.Tracker.Len(), len(w.Diagnostics),
			"run_id", res.RunID.String())
	}

	writer, err := report.NewWriter(c.OutDir, report.WithCompression(ct), report.WithLogger(logger))
	if err != nil {
		return err
	}

	artifacts, err := report.WriteAll(writer, res, c.File)
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		logging.ArtifactWritten(a.Path, a.CompressedSize, "compression", a.Compression)
	}

	if c.SQLite != "" {
		if err := report.ExportSQLite(ctx, c.SQLite, res); err != nil {
			return fmt.Errorf("sqlite export failed: %w", err)
		}
		logging.Info("sqlite_exported", "path", c.SQLite, "run_id", res.RunID.String())
	}

	report.PrintSummary(stdout, res, artifacts, !c.NoColor && logging.IsTerminal(stdout))

	return nil
}

func newParser(cli *CLI, opts ...kong.Option) (*kong.Kong, error) {
	options := []kong.Option{
		kong.Name("realm-recover"),
		kong.Description("Recover table data and unreferenced records from a two-root database file"),
		kong.UsageOnError(),
		kong.Configuration(YAMLLoader),
		kong.Vars{"version": version},
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	}

	return kong.New(cli, append(options, opts...)...)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		return err
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	return cli.Run(ctx, stdout)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "realm-recover: %v\n", err)
		stop()
		os.Exit(1)
	}
}
