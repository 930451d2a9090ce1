package canon

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// Threshold is the similarity a synonym must exceed (strictly) to absorb a label.
const Threshold = 0.8

// MatchKind says how a label was resolved.
type MatchKind int

const (
	AdHoc MatchKind = iota
	Exact
	Fuzzy
)

func (k MatchKind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Fuzzy:
		return "fuzzy"
	default:
		return "ad-hoc"
	}
}

// Match explains a canonicalization result.
type Match struct {
	Cluster string
	Kind    MatchKind
	Synonym string  // synonym that matched; empty for AdHoc
	Ratio   float64 // similarity of the matched synonym; 1 for Exact
}

// Canonicalizer maps raw activity labels onto configured clusters.
// It is immutable after construction and safe for concurrent use.
type Canonicalizer struct {
	table Table
	lower [][]string   // lower-cased synonyms per cluster
	runes [][][]string // lower-cased synonyms split into runes
}

// New builds a Canonicalizer over table.
func New(table Table) *Canonicalizer {
	c := &Canonicalizer{
		table: table,
		lower: make([][]string, len(table)),
		runes: make([][][]string, len(table)),
	}
	for i, cl := range table {
		for _, s := range cl.Synonyms {
			ls := strings.ToLower(s)
			c.lower[i] = append(c.lower[i], ls)
			c.runes[i] = append(c.runes[i], splitRunes(ls))
		}
	}
	return c
}

// Table returns the synonym table the canonicalizer was built from.
func (c *Canonicalizer) Table() Table {
	return c.table
}

// Canonicalize returns the cluster name for raw. It never fails: labels
// no cluster claims come back with their first letter upper-cased.
func (c *Canonicalizer) Canonicalize(raw string) string {
	return c.Explain(raw).Cluster
}

// Explain resolves raw and reports how. Clusters are tried in table
// order; each gets an exact (case-insensitive) check and then a fuzzy
// check before the next cluster is considered, so an earlier cluster's
// fuzzy hit beats a later cluster's exact one. Within a cluster the first
// synonym above Threshold wins, even when a later one would score higher.
func (c *Canonicalizer) Explain(raw string) Match {
	lower := strings.ToLower(raw)
	in := splitRunes(lower)

	for i, syns := range c.lower {
		for j, s := range syns {
			if lower == s {
				return Match{Cluster: c.table[i].Name, Kind: Exact, Synonym: c.table[i].Synonyms[j], Ratio: 1}
			}
		}
		for j, s := range c.runes[i] {
			if r := ratio(in, s); r > Threshold {
				return Match{Cluster: c.table[i].Name, Kind: Fuzzy, Synonym: c.table[i].Synonyms[j], Ratio: r}
			}
		}
	}

	return Match{Cluster: capitalize(raw), Kind: AdHoc}
}

// Ratio returns the Ratcliff/Obershelp similarity of a and b, 2*M/T where M
// is the number of runes in matching blocks and T the total rune count.
// Comparison is case-sensitive; callers lower-case first.
func Ratio(a, b string) float64 {
	return ratio(splitRunes(a), splitRunes(b))
}

func ratio(a, b []string) float64 {
	return difflib.NewMatcher(a, b).Ratio()
}

func splitRunes(s string) []string {
	return strings.Split(s, "")
}

// capitalize upper-cases the first rune and leaves the rest untouched.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
