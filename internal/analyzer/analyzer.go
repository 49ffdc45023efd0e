// Package analyzer walks a parsed value tree and summarizes its shape.
package analyzer

import (
	"regexp"
	"strconv"

	"github.com/mcncl/jsontree/internal/models"
)

// Regex patterns for well-known string shapes
var (
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// Time format patterns (ordered by specificity - most specific first)
	rfc3339Regex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)            // 2006-01-02T15:04:05Z
	iso8601Regex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?([+-]\d{2}:\d{2}|Z|[+-]\d{4})?$`) // ISO8601 variants
	dateOnlyRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)                                                         // 2006-01-02
	dateTimeRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`)                               // 2006-01-02 15:04:05

	identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Stats describes the shape of a value tree.
type Stats struct {
	Objects  int
	Arrays   int
	Strings  int
	Numbers  int
	Booleans int
	Nulls    int

	// Integers and Floats split Numbers by whether the text fits an int64.
	Integers int
	Floats   int

	// Timestamps and UUIDs count strings of those well-known shapes.
	Timestamps int
	UUIDs      int

	Members      int // object members across the tree
	Elements     int // array elements across the tree
	MaxDepth     int // nesting depth; a lone container has depth 1
	WidestObject int
	LongestArray int
}

// Leaves returns the number of primitive values.
func (s Stats) Leaves() int {
	return s.Strings + s.Numbers + s.Booleans + s.Nulls
}

// Entry is a primitive or empty container found at Path.
type Entry struct {
	Path  string
	Kind  models.Kind
	Value models.Value
}

// Analyzer collects statistics and leaf paths of a value tree.
type Analyzer struct {
	stats   Stats
	entries []Entry
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze walks the root of ir and returns its statistics.
func (a *Analyzer) Analyze(ir models.IntermediateRepresentation) Stats {
	a.stats = Stats{}
	a.entries = a.entries[:0]
	if ir.Root != nil {
		a.analyzeNode(ir.Root, "$", 0)
	}
	return a.stats
}

// Entries returns the leaves found by the last Analyze call, in document order.
func (a *Analyzer) Entries() []Entry {
	entries := make([]Entry, len(a.entries))
	copy(entries, a.entries)
	return entries
}

func (a *Analyzer) analyzeNode(node models.Value, path string, depth int) {
	switch v := node.(type) {
	case models.Null:
		a.stats.Nulls++
	case models.Bool:
		a.stats.Booleans++
	case models.String:
		a.analyzeString(string(v))
	case models.Number:
		a.analyzeNumber(v)
	case *models.Object:
		a.analyzeObject(v, path, depth+1)
		return
	case models.Array:
		a.analyzeArray(v, path, depth+1)
		return
	}
	a.entries = append(a.entries, Entry{Path: path, Kind: node.Kind(), Value: node})
}

func (a *Analyzer) analyzeString(s string) {
	a.stats.Strings++
	switch {
	case uuidRegex.MatchString(s):
		a.stats.UUIDs++
	case rfc3339Regex.MatchString(s),
		iso8601Regex.MatchString(s),
		dateOnlyRegex.MatchString(s),
		dateTimeRegex.MatchString(s):
		a.stats.Timestamps++
	}
}

func (a *Analyzer) analyzeNumber(num models.Number) {
	a.stats.Numbers++
	if _, err := num.Int64(); err == nil {
		a.stats.Integers++
		return
	}
	a.stats.Floats++
}

func (a *Analyzer) analyzeObject(obj *models.Object, path string, depth int) {
	a.stats.Objects++
	a.stats.Members += obj.Len()
	a.stats.MaxDepth = max(a.stats.MaxDepth, depth)
	a.stats.WidestObject = max(a.stats.WidestObject, obj.Len())

	if obj.Len() == 0 {
		a.entries = append(a.entries, Entry{Path: path, Kind: models.ObjectKind, Value: obj})
		return
	}
	obj.Range(func(key string, value models.Value) bool {
		a.analyzeNode(value, memberPath(path, key), depth)
		return true
	})
}

func (a *Analyzer) analyzeArray(arr models.Array, path string, depth int) {
	a.stats.Arrays++
	a.stats.Elements += len(arr)
	a.stats.MaxDepth = max(a.stats.MaxDepth, depth)
	a.stats.LongestArray = max(a.stats.LongestArray, len(arr))

	if len(arr) == 0 {
		a.entries = append(a.entries, Entry{Path: path, Kind: models.ArrayKind, Value: arr})
		return
	}
	for i, element := range arr {
		a.analyzeNode(element, path+"["+strconv.Itoa(i)+"]", depth)
	}
}

// memberPath appends key using dot notation when it is a plain identifier
// and bracket notation otherwise.
func memberPath(path, key string) string {
	if identRegex.MatchString(key) {
		return path + "." + key
	}
	return path + "[" + strconv.Quote(key) + "]"
}
