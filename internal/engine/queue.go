package engine

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"imtest/pkg/logging"
)

// ExprPrefix marks a filter written as an expression over FilterEnv.
const ExprPrefix = "expr:"

// FilterEnv is the environment "expr:" filters are evaluated in.
type FilterEnv struct {
	Category   string
	Name       string
	Group      string
	Flags      int
	ArgVariant int
	SourceFile string
}

// RegisterTest adds a test and records the caller as its source location.
// Tests in the "perf" category join GroupPerfs.
func (e *Engine) RegisterTest(category, name string) *Test {
	_, file, line, _ := runtime.Caller(1)
	t := &Test{
		Category:   category,
		Name:       name,
		SourceFile: file,
		SourceLine: line,
		Group:      GroupTests,
	}
	if strings.EqualFold(category, "perf") {
		t.Group = GroupPerfs
	}
	t.RunRecord.reset(RunFlagNone)

	e.mu.Lock()
	e.tests = append(e.tests, t)
	e.mu.Unlock()
	return t
}

// DeclareVars gives t a fresh *T per run, initialised by init when not nil.
// Read it back with Vars.
func DeclareVars[T any](t *Test, init func(v *T)) {
	t.newVars = func() any {
		v := new(T)
		if init != nil {
			init(v)
		}
		return v
	}
}

// Tests returns the registered tests in registration order.
func (e *Engine) Tests() []*Test {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Test, len(e.tests))
	copy(out, e.tests)
	return out
}

// FindTest looks a test up by category and name.
func (e *Engine) FindTest(category, name string) *Test {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.tests {
		if t.Category == category && t.Name == name {
			return t
		}
	}
	return nil
}

// QueueTest appends t to the queue, starting a new run record. A test that is
// already queued or running is left alone.
func (e *Engine) QueueTest(t *Test, flags RunFlags) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queueLocked(t, flags)
}

func (e *Engine) queueLocked(t *Test, flags RunFlags) bool {
	if t.Status == StatusQueued || t.Status == StatusRunning || t.Status == StatusSuspended {
		return false
	}
	t.RunRecord.reset(flags)
	e.setStatusLocked(t, StatusQueued)
	e.queue = append(e.queue, t)
	return true
}

// QueueTests queues every test of group accepted by filter and returns how
// many were queued.
//
// An empty filter or "all" accepts everything; "tests" and "perfs" select a
// group. Otherwise the filter is a comma-separated list of terms matched
// case-insensitively against "category/name": "^term" must prefix the
// category or the name and "-term" excludes. A filter starting with "expr:"
// is a boolean expression over FilterEnv, e.g.
// `expr: Category == "widgets" && Name startsWith "button"`.
func (e *Engine) QueueTests(group Group, filter string, flags RunFlags) (int, error) {
	group, match, err := parseSelection(group, filter)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	queued := 0
	for _, t := range e.tests {
		ok, err := selects(group, match, t)
		if err != nil {
			return queued, err
		}
		if ok && e.queueLocked(t, flags) {
			queued++
		}
	}
	logging.Debug("Engine", "Queued %d tests (group=%s filter=%q)", queued, group, filter)
	if queued == 0 {
		return 0, ErrNoTestsMatched
	}
	return queued, nil
}

// MatchTests returns the tests QueueTests would consider, without queueing
// them. Tests already queued or running are included.
func (e *Engine) MatchTests(group Group, filter string) ([]TestResult, error) {
	group, match, err := parseSelection(group, filter)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	var out []TestResult
	for _, t := range e.tests {
		ok, err := selects(group, match, t)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e.resultLocked(t))
		}
	}
	return out, nil
}

func parseSelection(group Group, filter string) (Group, testFilter, error) {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "", "all":
		filter = ""
	case "tests":
		group, filter = GroupTests, ""
	case "perfs":
		group, filter = GroupPerfs, ""
	}
	match, err := compileFilter(filter)
	return group, match, err
}

func selects(group Group, match testFilter, t *Test) (bool, error) {
	if group != GroupUnknown && t.Group != group {
		return false, nil
	}
	ok, err := match(t)
	if err != nil {
		return false, fmt.Errorf("evaluating filter on %s: %w", t.FullName(), err)
	}
	return ok, nil
}

type testFilter func(t *Test) (bool, error)

func compileFilter(filter string) (testFilter, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return func(*Test) (bool, error) { return true, nil }, nil
	}
	if strings.HasPrefix(filter, ExprPrefix) {
		return compileExprFilter(strings.TrimSpace(strings.TrimPrefix(filter, ExprPrefix)))
	}
	return compileTermFilter(filter), nil
}

func compileExprFilter(src string) (testFilter, error) {
	program, err := expr.Compile(src, expr.Env(FilterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return func(t *Test) (bool, error) {
		return runExprFilter(program, t)
	}, nil
}

func runExprFilter(program *vm.Program, t *Test) (bool, error) {
	out, err := expr.Run(program, FilterEnv{
		Category:   t.Category,
		Name:       t.Name,
		Group:      t.Group.String(),
		Flags:      int(t.Flags),
		ArgVariant: t.ArgVariant,
		SourceFile: t.SourceFile,
	})
	if err != nil {
		return false, err
	}
	b, _ := out.(bool)
	return b, nil
}

type filterTerm struct {
	text     string
	exclude  bool
	anchored bool
}

func compileTermFilter(filter string) testFilter {
	var terms []filterTerm
	includes := 0
	for _, raw := range strings.Split(filter, ",") {
		raw = strings.ToLower(strings.TrimSpace(raw))
		var term filterTerm
		if strings.HasPrefix(raw, "-") {
			term.exclude = true
			raw = raw[1:]
		}
		if strings.HasPrefix(raw, "^") {
			term.anchored = true
			raw = raw[1:]
		}
		if raw == "" {
			continue
		}
		term.text = raw
		if !term.exclude {
			includes++
		}
		terms = append(terms, term)
	}

	return func(t *Test) (bool, error) {
		name := strings.ToLower(t.Name)
		category := strings.ToLower(t.Category)
		full := category + "/" + name
		included := includes == 0
		for _, term := range terms {
			var hit bool
			if term.anchored {
				hit = strings.HasPrefix(name, term.text) || strings.HasPrefix(category, term.text) || strings.HasPrefix(full, term.text)
			} else {
				hit = strings.Contains(full, term.text)
			}
			if !hit {
				continue
			}
			if term.exclude {
				return false, nil
			}
			included = true
		}
		return included, nil
	}
}

// IsTestQueueEmpty reports whether nothing is waiting to run.
func (e *Engine) IsTestQueueEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue) == 0
}

// IsRunningTests reports whether a test is running or waiting to run.
func (e *Engine) IsRunningTests() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil || e.starting || len(e.queue) > 0
}

// AbortCurrentTest asks the running test to stop at its next suspension
// point. It ends as Error.
func (e *Engine) AbortCurrentTest() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.abortLocked()
}

func (e *Engine) abortLocked() {
	switch {
	case e.current != nil:
		e.current.ctx.abort.Store(true)
	case e.starting:
		e.abortStart = true
	}
}

// TryAbortEngine drops the queue and aborts the running test. It reports
// whether the engine was already idle.
func (e *Engine) TryAbortEngine() bool {
	e.dropQueue("abort requested")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil && !e.starting {
		return true
	}
	e.abortLocked()
	return false
}

// Suspend pauses the running test. Its GUI function keeps running but its
// test function is not resumed and the watchdogs stop counting.
func (e *Engine) Suspend() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil || e.current.finished {
		return false
	}
	return e.setStatusLocked(e.current.test, StatusSuspended)
}

// Resume continues a suspended test.
func (e *Engine) Resume() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return false
	}
	return e.setStatusLocked(e.current.test, StatusRunning)
}
