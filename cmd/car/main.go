// Command car is the reference CLI collaborator for the backup engine:
// it wires flag parsing, logging, and configuration around
// pkg/archive.Engine, but carries none of the engine's own logic.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/yuhaoze/car/internal/config"
	"github.com/yuhaoze/car/pkg/archive"
	"github.com/yuhaoze/car/pkg/fsadapter"
)

func main() {
	c := flag.Bool("c", false, "archive")
	x := flag.Bool("x", false, "extract")
	l := flag.Bool("l", false, "list")
	z := flag.Bool("z", false, "compress with Huffman coding")
	file := flag.String("f", "", "archive file")
	dest := flag.String("d", ".", "destination directory for extract")
	verbose := flag.Bool("v", false, "verbose")
	cfgPath := flag.String("config", "", "path to an optional car.yaml config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Verbose = true
	}

	logLevel := zerolog.InfoLevel
	if cfg.Verbose {
		logLevel = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(logLevel)
	archive.SetLogger(logger)

	modes := 0
	for _, b := range []bool{*c, *x, *l} {
		if b {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(flag.CommandLine.Output(), "Exactly one of -c, -x, -l must be specified")
		os.Exit(1)
	}
	if *file == "" {
		fmt.Fprintln(flag.CommandLine.Output(), "Option -f must be specified")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng := archive.NewEngine()
	eng.BufferSize = cfg.BufferSizeBytes

	switch {
	case *c:
		err = runArchive(ctx, eng, *file, flag.Args(), *z || cfg.CompressDefault)
	case *x:
		err = runExtract(ctx, eng, *file, *dest)
	case *l:
		err = runList(ctx, eng, *file)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runArchive(ctx context.Context, eng *archive.Engine, outFile string, paths []string, compress bool) error {
	if len(paths) == 0 {
		fmt.Fprintln(flag.CommandLine.Output(), "Missing path to archive")
		os.Exit(1)
	}

	out, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer out.Close()

	return eng.Pack(ctx, paths, out, compress)
}

func runExtract(ctx context.Context, eng *archive.Engine, inFile, dest string) error {
	in, err := os.Open(inFile)
	if err != nil {
		return err
	}
	defer in.Close()

	return eng.Unpack(ctx, in, dest)
}

func runList(ctx context.Context, eng *archive.Engine, inFile string) error {
	in, err := os.Open(inFile)
	if err != nil {
		return err
	}
	defer in.Close()

	entries, err := eng.List(ctx, in)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s %10s %s\n", fsadapter.FormatMode(e.Permissions, e.Type), fsadapter.FormatSize(e.Size), e.Name)
	}
	return nil
}
