package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/safetypes2/safetypes2/internal/config"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("safetypes2-repl", flag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "HuJSON config `file` with GC tuning knobs")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: safetypes2-repl [-c config.jsonc]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	session := NewSession()
	session.ApplyConfig(cfg)

	repl := &terminal{session: session}

	return repl.run()
}

// terminal drives Session.Dispatch from a liner-backed readline loop, the
// same split cmd/sloty/main.go uses between its REPL struct and the
// session/cache it wraps.
type terminal struct {
	session *Session
	liner   *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".safetypes2_history")
}

func (t *terminal) run() error {
	t.liner = liner.NewLiner()
	defer t.liner.Close()

	t.liner.SetCtrlCAborts(true)
	t.liner.SetCompleter(t.completer)

	if f, err := os.Open(historyFile()); err == nil {
		t.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Println("safetypes2-repl - interactive object-system driver")
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := t.liner.Prompt("safetypes2> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		t.liner.AppendHistory(line)

		fields := strings.Fields(line)

		switch fields[0] {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			t.saveHistory()

			return nil
		case "help", "?":
			printHelp()
		default:
			out, err := t.session.Dispatch(fields)
			if err != nil {
				fmt.Println("error:", err)
			} else if out != "" {
				fmt.Println(out)
			}
		}
	}

	t.saveHistory()

	return nil
}

// saveHistory persists command history atomically so a crash mid-write
// never leaves a truncated history file, the same discipline the
// teacher's pkg/fs.Locker applies to ticket writes.
func (t *terminal) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}

	var buf bytes.Buffer
	if _, err := t.liner.WriteHistory(&buf); err != nil {
		return
	}

	_ = atomic.WriteFile(path, &buf)
}

func (t *terminal) completer(line string) []string {
	commands := []string{
		"blob", "map", "seq", "extref",
		"retain", "release", "keep", "leave",
		"lock", "unlock", "collect", "roster", "threading", "handles",
		"help", "exit", "quit", "q",
	}

	var out []string

	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}

	return out
}

func printHelp() {
	fmt.Println(`commands:
  blob new <h> [contents]        | blob set/get/truncate/compare <h> ...
  map new <h>                    | map set/get/unset/iter <h> ...
  seq new <h>                    | seq push/insert/pop/shift/get/seek/sort/iter <h> ...
  extref new <h> <value> [weak]
  retain/release/keep/leave <h>
  lock / unlock                  manual reader-lock demonstration
  collect                        run one mark-and-sweep cycle
  roster                         live object count
  threading on|off               toggle single-threaded fast path
  handles                        list live handles and their counts
  exit / quit / q`)
}
