// Package main is the entry point for the codefit viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/codefit/internal/app"
)

// Set by the release build via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "codefit: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	// SIGINT and SIGTERM unwind through Shutdown so the terminal is
	// restored before the process exits.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "codefit: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() app.Options {
	var (
		configPath  string
		width       int
		plain       bool
		html        bool
		noWatch     bool
		logLevel    string
		showVersion bool
		showHelp    bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.IntVar(&width, "width", 0, "Pin the formatting width instead of measuring the terminal")
	flag.IntVar(&width, "w", 0, "Pin the formatting width (shorthand)")
	flag.BoolVar(&plain, "plain", false, "Write the reflowed document as plain text to stdout")
	flag.BoolVar(&html, "html", false, "Write the reflowed block markup to stdout")
	flag.BoolVar(&noWatch, "no-watch", false, "Disable live reload of the document and config")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = usage
	flag.Parse()

	if showHelp {
		usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("codefit %s (commit %s, built %s)\n", version, commit, date)
		os.Exit(0)
	}
	if !validLogLevel(logLevel) {
		fmt.Fprintf(os.Stderr, "codefit: invalid log level %q (want debug, info, warn, or error)\n", logLevel)
		os.Exit(1)
	}
	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	return app.Options{
		DocPath:    flag.Arg(0),
		ConfigPath: configPath,
		Width:      width,
		Plain:      plain,
		HTML:       html,
		NoWatch:    noWatch,
		LogLevel:   logLevel,
	}
}

func validLogLevel(s string) bool {
	switch s {
	case "", "debug", "info", "warn", "error":
		return true
	}
	return false
}

func usage() {
	fmt.Fprintf(os.Stderr, "codefit - width-adaptive code viewer for Markdown documents\n\n")
	fmt.Fprintf(os.Stderr, "Usage: codefit [options] <document.md>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  codefit notes.md                   View a document\n")
	fmt.Fprintf(os.Stderr, "  codefit -w 60 notes.md             View pinned to 60 columns\n")
	fmt.Fprintf(os.Stderr, "  codefit -plain -w 40 notes.md      Reflow to 40 columns on stdout\n")
	fmt.Fprintf(os.Stderr, "  codefit -html notes.md > out.html  Export reflowed block markup\n")
}
