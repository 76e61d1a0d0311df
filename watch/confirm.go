package watch

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/thisismy-go/thisismy/constants/lipgloss"
)

// Decision is the operator's answer at the confirmation gate.
type Decision int

const (
	// DecisionSkip keeps watching without re-running.
	DecisionSkip Decision = iota
	// DecisionRerun re-runs downstream processing.
	DecisionRerun
	// DecisionExit terminates the watch session and the process.
	DecisionExit
)

// Gate asks the operator whether to re-run after a detected change.
// Only one prompt is ever outstanding because the session evaluates
// candidates serially.
type Gate struct {
	reader *bufio.Reader
	out    io.Writer
	silent bool
}

// NewGate creates a Gate reading operator answers from in.
// Silent mode suppresses the prompt text only; the blocking line read still
// happens, so answers may be piped programmatically.
func NewGate(in io.Reader, out io.Writer, silent bool) *Gate {
	return &Gate{reader: bufio.NewReader(in), out: out, silent: silent}
}

// Confirm presents the changed resources and blocks for a single line of
// operator input. An empty changed list returns DecisionSkip without
// prompting or reading.
func (g *Gate) Confirm(changed []string) Decision {
	if len(changed) == 0 {
		return DecisionSkip
	}

	if !g.silent {
		for _, identifier := range changed {
			fmt.Fprintln(g.out, lipgloss.Yellow.Render("changed: "+identifier))
		}
		fmt.Fprint(g.out, lipgloss.BlueSky.Render("Re-run? [y/N, exit to stop] "))
	}

	line, err := g.reader.ReadString('\n')
	if err != nil && line == "" {
		return DecisionSkip
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return DecisionRerun
	case "exit", "quit", "q":
		return DecisionExit
	default:
		return DecisionSkip
	}
}
