package record

import "iter"

// Strand is the orientation column of a GTF/GFF entry.
type Strand byte

const (
	StrandForward Strand = '+'
	StrandReverse Strand = '-'
	StrandNone    Strand = '.'
)

func (s Strand) String() string { return string(rune(s)) }

// Valid reports whether s is one of '+', '-' or '.'.
func (s Strand) Valid() bool {
	return s == StrandForward || s == StrandReverse || s == StrandNone
}

// Annotation is one GTF/GFF feature line.
//
// Coordinates follow the GTF convention: Start is 1-based and the interval
// [Start, End) is half-open, so Length is End - Start.
type Annotation struct {
	Contig       string
	Source       string
	Feature      string
	Start        int
	End          int
	Score        string
	Strand       Strand
	Frame        string
	GeneID       string
	TranscriptID string // falls back to GeneID when the line has no transcript_id
	Attributes   Attributes
}

// Length returns End - Start.
func (a Annotation) Length() int { return a.End - a.Start }

// Attribute is one key/value pair of the ninth GTF column.
type Attribute struct {
	Key   string
	Value string
}

// Attributes is an insertion-ordered attribute map. It is built once by
// NewAttributes and never modified afterwards, so copies of an Annotation
// can share it.
type Attributes struct {
	list  []Attribute
	index map[string]int
}

// NewAttributes builds Attributes from pairs in file order. A repeated key
// keeps its first position and takes the last value. pairs is not retained.
func NewAttributes(pairs ...Attribute) Attributes {
	a := Attributes{
		list:  make([]Attribute, 0, len(pairs)),
		index: make(map[string]int, len(pairs)),
	}
	for _, kv := range pairs {
		if i, ok := a.index[kv.Key]; ok {
			a.list[i].Value = kv.Value
			continue
		}
		a.index[kv.Key] = len(a.list)
		a.list = append(a.list, kv)
	}
	return a
}

// Get returns the value stored under key.
func (a Attributes) Get(key string) (string, bool) {
	i, ok := a.index[key]
	if !ok || i >= len(a.list) {
		return "", false
	}
	return a.list[i].Value, true
}

func (a Attributes) Len() int { return len(a.list) }

// Keys returns the keys in order of first appearance.
func (a Attributes) Keys() []string {
	keys := make([]string, len(a.list))
	for i, kv := range a.list {
		keys[i] = kv.Key
	}
	return keys
}

// All iterates the pairs in order.
func (a Attributes) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, kv := range a.list {
			if !yield(kv.Key, kv.Value) {
				return
			}
		}
	}
}

// Pairs returns a copy of the ordered pairs.
func (a Attributes) Pairs() []Attribute {
	return append([]Attribute(nil), a.list...)
}
