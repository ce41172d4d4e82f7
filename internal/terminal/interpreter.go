// Package terminal interprets the commands typed into the portfolio's
// terminal interface. It keeps the command history, the recall cursor and
// tab completion; rendering is left to the caller.
package terminal

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/Zachkp/portfolio-terminal/internal/catalog"
	"github.com/Zachkp/portfolio-terminal/internal/content"
)

// Entry is one submitted command and what it produced.
type Entry struct {
	Input  string
	Output Payload
}

type Options struct {
	Profile  content.Profile
	Catalog  catalog.Catalog
	Checkout Checkout
}

// Interpreter is not safe for concurrent use; a UI drives it from one loop.
type Interpreter struct {
	profile  content.Profile
	catalog  catalog.Catalog
	checkout Checkout

	commands []Command
	history  []Entry
	cursor   int
}

func New(opts Options) *Interpreter {
	i := &Interpreter{
		profile:  opts.Profile,
		catalog:  opts.Catalog,
		checkout: opts.Checkout,
		cursor:   -1,
	}
	i.commands = i.builtins()
	return i
}

// Register appends a command to the dispatch table.
func (i *Interpreter) Register(c Command) {
	i.commands = append(i.commands, c)
}

// Commands lists the visible commands in table order.
func (i *Interpreter) Commands() []CommandInfo {
	out := make([]CommandInfo, 0, len(i.commands))
	for _, c := range i.commands {
		if c.Hidden {
			continue
		}
		name := c.Name
		if c.Usage != "" {
			name = c.Usage
		}
		out = append(out, CommandInfo{Name: name, Description: c.Description})
	}
	return out
}

// History returns a copy of the command log, oldest first.
func (i *Interpreter) History() []Entry {
	return slices.Clone(i.history)
}

// Cursor is the recall position counted back from the newest entry, or -1.
func (i *Interpreter) Cursor() int {
	return i.cursor
}

// Submit runs raw and records it. Blank input is ignored and clear empties
// the history instead of being recorded; both report false.
func (i *Interpreter) Submit(ctx context.Context, raw string) (Entry, bool) {
	input := strings.ToLower(strings.TrimSpace(raw))
	if input == "" {
		return Entry{}, false
	}
	i.cursor = -1

	out := i.dispatch(ctx, raw, input)
	if out == nil {
		return Entry{}, false
	}

	e := Entry{Input: raw, Output: out}
	i.history = append(i.history, e)
	return e, true
}

func (i *Interpreter) dispatch(ctx context.Context, raw, input string) Payload {
	for _, c := range i.commands {
		if args, ok := c.Match(input); ok {
			return run(ctx, c, Invocation{Raw: raw, Input: input, Args: args})
		}
	}

	return Error{
		Message: "Command not found: " + raw,
		Hint:    "Type 'help' to see available commands",
	}
}

func run(ctx context.Context, c Command, inv Invocation) (out Payload) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("terminal: command %q panicked: %v", c.Name, r)
			out = Error{Message: fmt.Sprintf("Command failed: %s", inv.Raw), Hint: "Type 'help' to see available commands"}
		}
	}()
	return c.Run(ctx, inv)
}

// Completion is the outcome of a tab press.
type Completion struct {
	// Input is the buffer after completion; unchanged when nothing applied.
	Input string
	// Matches are the command names that matched the partial input.
	Matches []string
	// Listed is true when the matches were appended to history for display.
	Listed bool
}

// CompleteTab completes partial against the command names. One match
// replaces the buffer, several extend it to their longest common prefix, and
// when that adds nothing the matches are listed in history instead.
func (i *Interpreter) CompleteTab(partial string) Completion {
	res := Completion{Input: partial}
	if strings.TrimSpace(partial) == "" {
		return res
	}

	lower := strings.ToLower(partial)
	for _, c := range i.commands {
		if !c.Hidden && strings.HasPrefix(strings.ToLower(c.Name), lower) {
			res.Matches = append(res.Matches, c.Name)
		}
	}

	switch len(res.Matches) {
	case 0:
		return res
	case 1:
		res.Input = res.Matches[0]
		return res
	}

	if prefix := commonPrefix(res.Matches); len(prefix) > len(partial) {
		res.Input = prefix
		return res
	}

	i.history = append(i.history, Entry{Input: partial, Output: Suggestions{Matches: res.Matches}})
	res.Listed = true
	return res
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, w := range words[1:] {
		n := 0
		for n < len(prefix) && n < len(w) && strings.EqualFold(prefix[n:n+1], w[n:n+1]) {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}

// RecallPrevious moves the cursor one entry further back and returns that
// entry's input. It reports false when there is no history.
func (i *Interpreter) RecallPrevious() (string, bool) {
	if len(i.history) == 0 {
		return "", false
	}
	if i.cursor < len(i.history)-1 {
		i.cursor++
	}
	return i.history[len(i.history)-1-i.cursor].Input, true
}

// RecallNext moves the cursor toward the newest entry. Stepping past the
// newest entry resets the cursor and yields an empty buffer.
func (i *Interpreter) RecallNext() (string, bool) {
	switch {
	case i.cursor > 0:
		i.cursor--
		return i.history[len(i.history)-1-i.cursor].Input, true
	case i.cursor == 0:
		i.cursor = -1
		return "", true
	default:
		return "", false
	}
}
