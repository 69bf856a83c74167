package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"imtest/internal/engine"
	"imtest/internal/input"
	"imtest/pkg/logging"
)

const replPrompt = "imtest> "

// errExit ends the REPL loop without an error.
var errExit = errors.New("exit")

type replCommand struct {
	usage       string
	description string
	run         func(ctx context.Context, args []string) error
}

// REPL reads commands from a terminal and drives a Session. The engine's
// frame loop must be running on another goroutine.
type REPL struct {
	session  *Session
	out      io.Writer
	commands map[string]replCommand
	order    []string
}

// NewREPL creates a REPL writing to out.
func NewREPL(session *Session, out io.Writer) *REPL {
	r := &REPL{session: session, out: out, commands: map[string]replCommand{}}
	r.register("help", "help", "Show available commands", r.help)
	r.register("list", "list [filter]", "List tests and their last status", r.list)
	r.register("run", "run [filter]", "Run the tests matching filter (Ctrl+C aborts)", r.run)
	r.register("abort", "abort", "Abort the running test and drop the queue", r.abort)
	r.register("speed", "speed <fast|normal|cinematic>", "Set the speed of the next tests", r.speed)
	r.register("status", "status", "Show the engine state", r.status)
	r.register("quit", "quit", "Leave interactive mode", func(context.Context, []string) error { return errExit })
	r.commands["exit"] = r.commands["quit"]
	return r
}

func (r *REPL) register(name, usage, description string, run func(ctx context.Context, args []string) error) {
	r.commands[name] = replCommand{usage: usage, description: description, run: run}
	r.order = append(r.order, name)
}

// Run reads and executes commands until quit, EOF or ctx is cancelled. in
// may be nil to read from the terminal.
func (r *REPL) Run(ctx context.Context, in io.ReadCloser) error {
	cfg := &readline.Config{
		Prompt:            replPrompt,
		HistoryFile:       filepath.Join(os.TempDir(), ".imtest_history"),
		AutoComplete:      r.createCompleter(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            r.out,
	}
	if in != nil {
		cfg.Stdin = in
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()

	// Readline blocks until a line arrives; closing it unblocks the loop.
	stop := context.AfterFunc(ctx, func() { rl.Close() })
	defer stop()

	fmt.Fprintln(r.out, "Interactive mode. Type 'help' for available commands. Use TAB for completion.")
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		} else if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("readline error: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := r.executeCommand(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(r.out, "Goodbye!")
				return nil
			}
			fmt.Fprintf(r.out, "Error: %v\n", err)
		}
	}
}

// executeCommand runs one command line. Ctrl+C cancels the command, not the
// REPL.
func (r *REPL) executeCommand(ctx context.Context, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	name := strings.ToLower(parts[0])
	if name == "?" {
		name = "help"
	}
	cmd, ok := r.commands[name]
	if !ok {
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", parts[0])
	}

	cmdCtx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()
	logging.Debug("REPL", "Executing %q", line)
	return cmd.run(cmdCtx, parts[1:])
}

func (r *REPL) createCompleter() readline.AutoCompleter {
	testNames := func(string) []string {
		var names []string
		for _, t := range r.session.engine.Tests() {
			names = append(names, t.Name)
		}
		return names
	}
	speeds := make([]readline.PrefixCompleterInterface, 0, 3)
	for _, s := range []input.Speed{input.SpeedFast, input.SpeedNormal, input.SpeedCinematic} {
		speeds = append(speeds, readline.PcItem(s.String()))
	}

	items := make([]readline.PrefixCompleterInterface, 0, len(r.order)+1)
	for _, name := range r.order {
		switch name {
		case "list", "run":
			items = append(items, readline.PcItem(name, readline.PcItemDynamic(testNames)))
		case "speed":
			items = append(items, readline.PcItem(name, speeds...))
		default:
			items = append(items, readline.PcItem(name))
		}
	}
	items = append(items, readline.PcItem("exit"))
	return readline.NewPrefixCompleter(items...)
}

func (r *REPL) help(context.Context, []string) error {
	fmt.Fprintln(r.out, "Available commands:")
	for _, name := range r.order {
		cmd := r.commands[name]
		fmt.Fprintf(r.out, "  %-32s %s\n", cmd.usage, cmd.description)
	}
	fmt.Fprintln(r.out, "\nFilters: empty or 'all', 'tests', 'perfs', comma separated terms")
	fmt.Fprintln(r.out, "('^name' anchors, '-term' excludes) or 'expr: <expression>'.")
	return nil
}

func (r *REPL) list(_ context.Context, args []string) error {
	return r.session.List(strings.Join(args, " "))
}

func (r *REPL) run(ctx context.Context, args []string) error {
	suite, err := r.session.RunTests(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if !suite.Passed() {
		return &engine.SuiteFailedError{Tested: suite.Tested, Succeeded: suite.Succeeded, Failed: suite.FailedNames()}
	}
	return nil
}

func (r *REPL) abort(context.Context, []string) error {
	if r.session.Abort() {
		fmt.Fprintln(r.out, "No test is running.")
	} else {
		fmt.Fprintln(r.out, "Abort requested.")
	}
	return nil
}

func (r *REPL) speed(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: speed <fast|normal|cinematic> (current: %s)", r.session.Speed())
	}
	speed, err := r.session.SetSpeed(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Speed set to %s.\n", speed)
	return nil
}

func (r *REPL) status(context.Context, []string) error {
	e := r.session.engine
	state := "idle"
	if e.IsRunningTests() {
		state = "running"
	}
	fmt.Fprintf(r.out, "Engine:  %s\n", state)
	fmt.Fprintf(r.out, "Speed:   %s\n", e.Speed())
	fmt.Fprintf(r.out, "Tests:   %d registered\n", len(e.Tests()))
	return nil
}
