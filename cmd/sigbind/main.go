package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/funvibe/sigbind/internal/config"
	"github.com/funvibe/sigbind/pkg/sigbind"
)

const usage = `sigbind — signature manifest tool

Usage:
  sigbind check [-watch] [manifest.yaml]   validate every declared signature
  sigbind fmt [manifest.yaml]              print signatures in canonical form

The manifest defaults to ` + config.ManifestFileName + ` in the current directory.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cmd := os.Args[1]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	watch := fs.Bool("watch", false, "re-check whenever the manifest changes")
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	path := config.ManifestFileName
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	switch cmd {
	case "check":
		if *watch {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			if err := watchManifest(ctx, path); err != nil {
				fmt.Fprintf(os.Stderr, "sigbind: %v\n", err)
				os.Exit(1)
			}
			return
		}
		os.Exit(runCheck(path))
	case "fmt":
		os.Exit(runFmt(path))
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func runCheck(path string) int {
	mf, err := sigbind.LoadManifestFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sigbind: %v\n", err)
		return 1
	}

	problems, err := mf.Check()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sigbind: %v\n", err)
		return 1
	}

	if len(problems) == 0 {
		fmt.Printf("%s: %d method(s) OK\n", path, len(mf.Methods))
		return 0
	}

	for _, m := range mf.Methods {
		errs, bad := problems[m.Name]
		if !bad {
			continue
		}
		for _, e := range errs {
			fmt.Printf("%s: %s: %s\n", path, colorize(m.Name, colorRed), e.Error())
		}
	}
	return 1
}

func runFmt(path string) int {
	mf, err := sigbind.LoadManifestFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sigbind: %v\n", err)
		return 1
	}

	code := 0
	for _, m := range mf.Methods {
		var (
			s   *sigbind.Signature
			err error
		)
		if m.Method {
			s, err = sigbind.ParseMethod(m.Signature)
		} else {
			s, err = sigbind.Parse(m.Signature)
		}
		if err != nil {
			fmt.Printf("%s: %v\n", colorize(m.Name, colorRed), err)
			code = 1
			continue
		}
		fmt.Printf("%s %s\n", colorize(m.Name, colorGreen), s.String())
	}
	return code
}
