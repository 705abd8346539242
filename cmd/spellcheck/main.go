// Command spellcheck checks files or standard input and prints each
// misspelling with its position and corrections.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"

	"github.com/sagerenn/spelld/internal/app"
	"github.com/sagerenn/spelld/internal/config"
	"github.com/sagerenn/spelld/internal/observability"
	"github.com/sagerenn/spelld/internal/service"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("SPELLD_CONFIG"), "path to YAML config (empty: environment only)")
	lang := flag.String("lang", "", "language tag; detected from the text when empty")
	suggest := flag.Bool("suggest", true, "print corrections")
	learn := flag.String("learn", "", "add a word to the user dictionary and exit")
	unlearn := flag.String("unlearn", "", "remove a word from the user dictionary and exit")
	list := flag.Bool("list", false, "list installed dictionaries and exit")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal("config", err)
	}
	log := observability.NewWithWriter(os.Stderr, cfg.Log.Level)
	ctx := context.Background()
	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		fatal("app", err)
	}

	out := termenv.NewOutput(os.Stdout)
	code := run(ctx, a.Service, out, options{
		lang:    *lang,
		suggest: *suggest,
		learn:   *learn,
		unlearn: *unlearn,
		list:    *list,
		files:   flag.Args(),
	})
	_ = a.Close()
	os.Exit(code)
}

type options struct {
	lang    string
	suggest bool
	learn   string
	unlearn string
	list    bool
	files   []string
}

// run returns the exit status: 0 when clean, 1 when misspellings were
// found, 2 on errors.
func run(ctx context.Context, svc *service.Service, out *termenv.Output, opts options) int {
	switch {
	case opts.list:
		for _, tag := range svc.Dictionaries().Available {
			fmt.Fprintln(out, tag)
		}
		return 0
	case opts.learn != "":
		return report(out, svc.Learn(opts.lang, opts.learn))
	case opts.unlearn != "":
		return report(out, svc.Unlearn(opts.lang, opts.unlearn))
	}

	inputs := opts.files
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	status := 0
	for _, name := range inputs {
		text, err := readInput(name)
		if err != nil {
			fmt.Fprintln(out, out.String(err.Error()).Foreground(out.Color("1")))
			status = 2
			continue
		}
		lang, err := svc.ResolveLanguage(ctx, opts.lang, text)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", name, err)
			status = 2
			continue
		}
		res, err := svc.Check(lang, text, opts.suggest)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", name, err)
			status = 2
			continue
		}
		printResult(out, name, text, res)
		if res.Count > 0 && status == 0 {
			status = 1
		}
	}
	return status
}

func report(out *termenv.Output, err error) int {
	if err != nil {
		fmt.Fprintln(out, out.String(err.Error()).Foreground(out.Color("1")))
		return 2
	}
	return 0
}

func readInput(name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(name)
	return string(data), err
}

func printResult(out *termenv.Output, name, text string, res service.CheckResult) {
	for _, m := range res.Misspellings {
		line, col := position(text, m.Start)
		word := out.String(m.Word).Foreground(out.Color("1")).Underline()
		fmt.Fprintf(out, "%s:%d:%d: %s", name, line, col, word)
		if len(m.Suggestions) > 0 {
			fmt.Fprintf(out, " %s", out.String("→ "+strings.Join(m.Suggestions, ", ")).Faint())
		}
		fmt.Fprintln(out)
	}
}

// position converts a byte offset into a 1-based line and rune column.
func position(text string, offset int) (int, int) {
	line, col := 1, 1
	for i, r := range text {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

func fatal(stage string, err error) {
	_, _ = os.Stderr.WriteString(stage + ": " + err.Error() + "\n")
	os.Exit(2)
}
