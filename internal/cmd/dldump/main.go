// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Command dldump prints the items of an encoded display list.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"honnef.co/go/displaylist"
)

func main() {
	var (
		demo    bool
		out     string
		summary bool
		verbose bool
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-v] [--summary] <file>\n       %s --demo -o <file>\n", os.Args[0], os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.BoolVar(&demo, "demo", false, "Build a sample display list instead of reading one")
	pflag.StringVarP(&out, "output", "o", "", "Write the payload to `file`")
	pflag.BoolVar(&summary, "summary", false, "Print item counts per kind instead of every item")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Be verbose")
	pflag.Parse()

	dief := func(f string, v ...any) {
		fmt.Fprintf(os.Stderr, f, v...)
		fmt.Fprintln(os.Stderr)
		os.Exit(1)
	}

	if verbose {
		displaylist.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	var list *displaylist.BuiltDisplayList
	switch {
	case demo:
		if len(pflag.Args()) != 0 {
			pflag.Usage()
			os.Exit(2)
		}
		list = buildDemo()
	case len(pflag.Args()) == 1:
		b, err := os.ReadFile(pflag.Arg(0))
		if err != nil {
			dief("Couldn't read display list: %s", err)
		}
		list, err = displaylist.FromPayload(b)
		if err != nil {
			dief("Couldn't decode %q: %s", pflag.Arg(0), err)
		}
	default:
		pflag.Usage()
		os.Exit(2)
	}

	if out != "" {
		b, err := list.IntoPayload()
		if err != nil {
			dief("Couldn't encode display list: %s", err)
		}
		if err := os.WriteFile(out, b, 0666); err != nil {
			dief("Couldn't write payload: %s", err)
		}
		return
	}

	if summary {
		if err := printSummary(os.Stdout, list); err != nil {
			dief("Malformed display list: %s", err)
		}
		return
	}
	if err := list.Dump(os.Stdout); err != nil {
		dief("Malformed display list: %s", err)
	}
}

func printSummary(w io.Writer, list *displaylist.BuiltDisplayList) error {
	start, finish, send := list.Times()
	fmt.Fprintf(w, "%d bytes, built in %dns, sent at %d\n", len(list.Data()), finish-start, send)

	counts := map[displaylist.ItemKind]int{}
	var glyphs, contexts int
	it := list.Iter()
	for it.Next() {
		k := it.SpecificItem().Kind()
		counts[k]++
		if k == displaylist.KindText {
			glyphs += list.Glyphs(it.Glyphs()).Len()
		}
	}
	if err := it.Err(); err != nil {
		return err
	}

	// Top-level stacking contexts, without descending into them.
	top := list.Iter()
	for top.Peek() {
		if _, _, _, ok := top.StartingStackingContext(); ok {
			contexts++
			top.SkipCurrentStackingContext()
		}
	}
	if err := top.Err(); err != nil {
		return err
	}

	for k := displaylist.KindRectangle; k <= displaylist.KindPopAllShadows; k++ {
		if n := counts[k]; n > 0 {
			fmt.Fprintf(w, "%-20s %d\n", k, n)
		}
	}
	fmt.Fprintf(w, "%-20s %d\n", "glyphs", glyphs)
	fmt.Fprintf(w, "%-20s %d\n", "top-level contexts", contexts)
	return nil
}
