package dem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Kind is the instruction type of a model line.
type Kind int

const (
	// KindError is "error(p) targets...".
	KindError Kind = iota
	// KindDetector is "detector(coords...) D...".
	KindDetector
	// KindObservable is "logical_observable L...".
	KindObservable
	// KindShift is "shift_detectors(coords...) k".
	KindShift
	// KindRepeat is "repeat n { ... }".
	KindRepeat
)

// TargetKind distinguishes the tokens after an instruction head.
type TargetKind int

const (
	// TargetDetector is "D<k>".
	TargetDetector TargetKind = iota
	// TargetObservable is "L<k>".
	TargetObservable
	// TargetSeparator is "^".
	TargetSeparator
	// TargetNumber is a bare integer (shift_detectors amount).
	TargetNumber
)

// Target is one token following an instruction head.
type Target struct {
	Kind  TargetKind
	Value int
}

// Instruction is one parsed line; repeat blocks hold their body.
type Instruction struct {
	Kind    Kind
	Args    []float64
	Targets []Target
	Count   int           // repeat count
	Body    []Instruction // repeat body
	Line    int
}

// Program is an unflattened model: the instruction tree as written.
type Program struct {
	Instructions []Instruction
}

// ReadFile parses and flattens the model stored at path.
func ReadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dem: open %s: %w", path, err)
	}
	defer f.Close()

	return ParseModel(f)
}

// ParseModel parses and flattens model text.
func ParseModel(r io.Reader) (*Model, error) {
	p, err := Parse(r)
	if err != nil {
		return nil, err
	}

	return p.Flatten()
}

// Parse reads model text into a Program.
//
// Steps:
//  1. Strip comments and blank lines.
//  2. Split each line into head, optional (args) and targets.
//  3. Push a frame on "repeat n {", pop it on "}".
func Parse(r io.Reader) (*Program, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	// stack[0] is the top level; each open repeat adds a frame.
	stack := [][]Instruction{nil}
	var open []Instruction

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "}" {
			if len(open) == 0 {
				return nil, fmt.Errorf("%w: line %d: unmatched '}'", ErrSyntax, lineNo)
			}
			rep := open[len(open)-1]
			open = open[:len(open)-1]
			rep.Body = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack[len(stack)-1] = append(stack[len(stack)-1], rep)
			continue
		}

		inst, opens, err := parseLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		if opens {
			open = append(open, inst)
			stack = append(stack, nil)
			continue
		}
		stack[len(stack)-1] = append(stack[len(stack)-1], inst)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dem: read: %w", err)
	}
	if len(open) > 0 {
		return nil, fmt.Errorf("%w: line %d: unterminated repeat block", ErrSyntax, open[len(open)-1].Line)
	}

	return &Program{Instructions: stack[0]}, nil
}

// parseLine parses one non-blank line. opens reports a "repeat n {" header.
func parseLine(line string, lineNo int) (inst Instruction, opens bool, err error) {
	inst.Line = lineNo

	head, args, rest, err := splitHead(line)
	if err != nil {
		return inst, false, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNo, err)
	}
	if i := strings.IndexByte(head, '['); i >= 0 { // drop tags: error[tag](p)
		head = head[:i]
	}

	switch strings.ToLower(head) {
	case "error":
		inst.Kind = KindError
		if len(args) != 1 {
			return inst, false, fmt.Errorf("%w: line %d: error takes one probability", ErrSyntax, lineNo)
		}
	case "detector":
		inst.Kind = KindDetector
	case "logical_observable":
		inst.Kind = KindObservable
	case "shift_detectors":
		inst.Kind = KindShift
	case "repeat":
		inst.Kind = KindRepeat
		fields := strings.Fields(rest)
		if len(fields) != 2 || fields[1] != "{" {
			return inst, false, fmt.Errorf("%w: line %d: want 'repeat N {'", ErrSyntax, lineNo)
		}
		n, convErr := strconv.Atoi(fields[0])
		if convErr != nil || n < 0 {
			return inst, false, fmt.Errorf("%w: line %d: bad repeat count %q", ErrSyntax, lineNo, fields[0])
		}
		inst.Count = n

		return inst, true, nil
	default:
		return inst, false, fmt.Errorf("%w: line %d: unknown instruction %q", ErrSyntax, lineNo, head)
	}
	inst.Args = args

	for _, tok := range strings.Fields(rest) {
		tg, tErr := parseTarget(tok)
		if tErr != nil {
			return inst, false, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNo, tErr)
		}
		inst.Targets = append(inst.Targets, tg)
	}

	if inst.Kind == KindShift {
		if len(inst.Targets) != 1 || inst.Targets[0].Kind != TargetNumber {
			return inst, false, fmt.Errorf("%w: line %d: shift_detectors takes one integer", ErrSyntax, lineNo)
		}

		return inst, false, nil
	}
	for _, tg := range inst.Targets {
		if tg.Kind == TargetNumber {
			return inst, false, fmt.Errorf("%w: line %d: bare number target in %s", ErrSyntax, lineNo, head)
		}
	}

	return inst, false, nil
}

// splitHead separates "name(a, b) rest" into its parts.
func splitHead(line string) (head string, args []float64, rest string, err error) {
	paren := strings.IndexByte(line, '(')
	space := strings.IndexAny(line, " \t")
	if paren < 0 || (space >= 0 && space < paren) {
		if space < 0 {
			return line, nil, "", nil
		}

		return line[:space], nil, line[space+1:], nil
	}

	closing := strings.IndexByte(line, ')')
	if closing < paren {
		return "", nil, "", fmt.Errorf("unbalanced parentheses")
	}
	head = line[:paren]
	inner := strings.TrimSpace(line[paren+1 : closing])
	if inner != "" {
		for _, part := range strings.Split(inner, ",") {
			v, convErr := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if convErr != nil {
				return "", nil, "", fmt.Errorf("bad argument %q", part)
			}
			args = append(args, v)
		}
	}

	return head, args, line[closing+1:], nil
}

func parseTarget(tok string) (Target, error) {
	if tok == "^" {
		return Target{Kind: TargetSeparator}, nil
	}

	kind := TargetNumber
	digits := tok
	switch tok[0] {
	case 'D', 'd':
		kind, digits = TargetDetector, tok[1:]
	case 'L', 'l':
		kind, digits = TargetObservable, tok[1:]
	}
	v, err := strconv.Atoi(digits)
	if err != nil || v < 0 {
		return Target{}, fmt.Errorf("bad target %q", tok)
	}

	return Target{Kind: kind, Value: v}, nil
}
