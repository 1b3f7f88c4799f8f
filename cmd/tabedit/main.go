// Command tabedit is the terminal entrypoint for the modal spreadsheet
// editor: it parses the CLI surface (§6.1), loads the configuration,
// opens the bound screen, and hands off to app.Editor's event loop.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/msheldon32/tabular-sub000/app"
	"github.com/msheldon32/tabular-sub000/config"
)

func main() {
	fs := flag.NewFlagSet("tabedit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		delimiter = fs.String("delimiter", "", "comma | tab | semicolon | pipe | single char")
		fork      = fs.Bool("fork", false, "fork-on-load (never overwrite source file)")
		readOnly  = fs.Bool("read-only", false, "reject :w unless fork has been taken")
		help      = fs.Bool("help", false, "show help and exit")
		logPath   = fs.String("log", "", "log to file")
		noConfig  = fs.Bool("noconfig", false, "force default configuration")
	)
	fs.StringVar(delimiter, "d", "", "comma | tab | semicolon | pipe | single char")
	fs.BoolVar(fork, "f", false, "fork-on-load (never overwrite source file)")
	fs.BoolVar(help, "h", false, "show help and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *help {
		printUsage(fs)
		os.Exit(0)
	}

	log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	if *logPath != "" {
		logFile, err := os.Create(*logPath)
		if err != nil {
			exitWithError(err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(io.Discard)
	}

	delim, err := app.ParseDelimiter(*delimiter)
	if err != nil {
		exitWithError(err)
	}

	cfg, err := config.LoadOrCreate(*noConfig)
	if err != nil {
		exitWithError(err)
	}

	path := fs.Arg(0)
	if err := runEditor(path, delim, *fork, *readOnly, cfg); err != nil {
		exitWithError(err)
	}
}

func runEditor(path string, delim rune, fork, readOnly bool, cfg config.Config) error {
	log.Printf("path arg: %q\n", path)
	log.Printf("fork: %t, read-only: %t\n", fork, readOnly)
	log.Printf("$TERM env var: %q\n", os.Getenv("TERM"))

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	editor, err := app.NewEditor(screen, path, delim, readOnly, cfg)
	if err != nil {
		return err
	}
	if fork {
		editor.ForkOnLoad()
	}
	editor.RunEventLoop()
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stdout, "Usage: tabedit [options] [FILE]\n")
	fmt.Fprintf(os.Stdout, "  -d, --delimiter <DELIM>   comma | tab | semicolon | pipe | single char\n")
	fmt.Fprintf(os.Stdout, "  -f, --fork                fork-on-load (never overwrite source file)\n")
	fmt.Fprintf(os.Stdout, "      --read-only           reject :w unless fork has been taken\n")
	fmt.Fprintf(os.Stdout, "  -h, --help                show help and exit 0\n")
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}
