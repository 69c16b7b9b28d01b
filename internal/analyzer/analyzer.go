package analyzer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/wuxiang/jsontok/internal/escape"
	"github.com/wuxiang/jsontok/internal/value"
)

// Stats summarizes the shape of a value tree
type Stats struct {
	Nulls    int
	Booleans int
	Integers int
	Doubles  int
	Strings  int
	Arrays   int
	Objects  int

	// Nodes counts every value, containers included.
	Nodes int
	// Members counts object members across all objects.
	Members int
	// MaxDepth is the deepest container nesting; a scalar root has depth 0.
	MaxDepth int
	// StringBytes sums the decoded length of string values and keys.
	StringBytes int
	// DuplicateKeys holds the path of every member whose key already
	// appeared earlier in the same object, in document order.
	DuplicateKeys []string
}

// Analyzer walks value trees and collects Stats
type Analyzer struct{}

// NewAnalyzer creates a new Analyzer instance
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

type visit struct {
	v     *value.Value
	path  string
	depth int
}

// Analyze walks root without recursion, so arbitrarily deep trees built
// through the value constructors are handled as well as parsed ones.
func (a *Analyzer) Analyze(root *value.Value) Stats {
	var s Stats
	stack := []visit{{v: root, path: "$"}}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.Nodes++

		switch n.v.Kind() {
		case value.Null:
			s.Nulls++
		case value.Boolean:
			s.Booleans++
		case value.Integer:
			s.Integers++
		case value.Double:
			s.Doubles++
		case value.String:
			s.Strings++
			s.StringBytes += len(n.v.Text())
		case value.Array:
			s.Arrays++
			s.MaxDepth = max(s.MaxDepth, n.depth+1)
			elems := n.v.Elements()
			// Reverse order keeps the walk in document order.
			for i := len(elems) - 1; i >= 0; i-- {
				stack = append(stack, visit{v: elems[i], path: n.path + "[" + strconv.Itoa(i) + "]", depth: n.depth + 1})
			}
		case value.Object:
			s.Objects++
			s.MaxDepth = max(s.MaxDepth, n.depth+1)
			members := n.v.Members()
			s.Members += len(members)

			seen := make(map[string]bool, len(members))
			for _, m := range members {
				s.StringBytes += len(m.Key)
				if seen[m.Key] {
					s.DuplicateKeys = append(s.DuplicateKeys, memberPath(n.path, m.Key))
				}
				seen[m.Key] = true
			}
			for i := len(members) - 1; i >= 0; i-- {
				m := members[i]
				stack = append(stack, visit{v: m.Value, path: memberPath(n.path, m.Key), depth: n.depth + 1})
			}
		}
	}
	return s
}

// memberPath uses dot notation for identifier-like keys and bracket
// notation otherwise.
func memberPath(parent, key string) string {
	if isIdentifier(key) {
		return parent + "." + key
	}
	return parent + "[" + string(escape.Quote(nil, key)) + "]"
}

func isIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c == '_' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Report renders the stats as "name: value" lines sorted by name
func (s Stats) Report() string {
	lines := []string{
		"arrays: " + humanize.Comma(int64(s.Arrays)),
		"booleans: " + humanize.Comma(int64(s.Booleans)),
		"doubles: " + humanize.Comma(int64(s.Doubles)),
		"duplicate_keys: " + duplicates(s.DuplicateKeys),
		"integers: " + humanize.Comma(int64(s.Integers)),
		"max_depth: " + strconv.Itoa(s.MaxDepth),
		"members: " + humanize.Comma(int64(s.Members)),
		"nodes: " + humanize.Comma(int64(s.Nodes)),
		"nulls: " + humanize.Comma(int64(s.Nulls)),
		"objects: " + humanize.Comma(int64(s.Objects)),
		"string_bytes: " + humanize.IBytes(uint64(s.StringBytes)),
		"strings: " + humanize.Comma(int64(s.Strings)),
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n") + "\n"
}

func duplicates(paths []string) string {
	if len(paths) == 0 {
		return "0"
	}
	return fmt.Sprintf("%d (%s)", len(paths), strings.Join(paths, ", "))
}
