package testutil

import (
	"fmt"
	"strings"
)

// OpKind names one user-level action against a task list.
type OpKind int

const (
	OpAdd OpKind = iota
	OpToggle
	OpRemove
	OpClearCompleted
	OpSetFilter
	OpStats
	opKindCount
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpToggle:
		return "toggle"
	case OpRemove:
		return "rm"
	case OpClearCompleted:
		return "clear-completed"
	case OpSetFilter:
		return "filter"
	case OpStats:
		return "stats"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// Op is one generated action. Target is an index into the caller's list
// of known tasks; values past the end mean "an id that does not exist".
type Op struct {
	Kind   OpKind
	Text   string // add
	Target int    // toggle, rm
	Filter string // filter
}

func (o Op) String() string {
	switch o.Kind {
	case OpAdd:
		return fmt.Sprintf("add %q", o.Text)
	case OpToggle, OpRemove:
		return fmt.Sprintf("%s #%d", o.Kind, o.Target)
	case OpSetFilter:
		return fmt.Sprintf("filter %q", o.Filter)
	default:
		return o.Kind.String()
	}
}

// filterValues includes invalid values, which must be ignored.
var filterValues = []string{"all", "active", "completed", "", "ALL", "done"}

// OpGenerator decodes a deterministic stream of operations from fuzz bytes.
type OpGenerator struct {
	stream *ByteStream
}

// NewOpGenerator creates a generator over seed.
func NewOpGenerator(seed []byte) *OpGenerator {
	return &OpGenerator{stream: NewByteStream(seed)}
}

// HasMore reports whether the seed still has undecoded bytes.
func (g *OpGenerator) HasMore() bool {
	return g.stream.HasMore()
}

// NextOp decodes the next operation. known is the number of tasks the
// caller currently tracks; targets are drawn from [0, known].
func (g *OpGenerator) NextOp(known int) Op {
	kind := OpKind(g.stream.NextInt(int(opKindCount)))

	switch kind {
	case OpAdd:
		return Op{Kind: kind, Text: g.stream.NextText(12)}
	case OpToggle, OpRemove:
		return Op{Kind: kind, Target: g.stream.NextInt(known + 1)}
	case OpSetFilter:
		return Op{Kind: kind, Filter: filterValues[g.stream.NextInt(len(filterValues))]}
	default:
		return Op{Kind: kind}
	}
}

// FormatOps renders an op history for failure messages.
func FormatOps(history []string) string {
	var b strings.Builder

	b.WriteString("ops:\n")

	for i, op := range history {
		fmt.Fprintf(&b, "  %3d. %s\n", i+1, op)
	}

	return b.String()
}
