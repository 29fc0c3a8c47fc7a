package codes

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrEmptySet is returned when a catalog would contain an empty code-set.
	ErrEmptySet = errors.New("empty code set")
	// ErrOverlap is returned when one code is classified into both halves of a pair.
	ErrOverlap = errors.New("code classified twice")
)

// Set is an immutable collection of opaque billing or diagnosis codes.
type Set struct {
	m map[string]struct{}
}

// NewSet builds a Set from codes, trimming whitespace and dropping blanks.
func NewSet(codes ...string) Set {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		m[c] = struct{}{}
	}
	return Set{m: m}
}

// Contains reports whether code is a member of s.
func (s Set) Contains(code string) bool {
	if code == "" {
		return false
	}
	_, ok := s.m[code]
	return ok
}

// ContainsAny reports whether any of values is a member of s.
func (s Set) ContainsAny(values ...string) bool {
	for _, v := range values {
		if s.Contains(v) {
			return true
		}
	}
	return false
}

// Len returns the number of codes in s.
func (s Set) Len() int { return len(s.m) }

// Codes returns the members of s in sorted order.
func (s Set) Codes() []string {
	out := make([]string, 0, len(s.m))
	for c := range s.m {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Union returns the codes present in either set, sorted.
func (s Set) Union(other Set) []string {
	merged := make(map[string]struct{}, len(s.m)+len(other.m))
	for c := range s.m {
		merged[c] = struct{}{}
	}
	for c := range other.m {
		merged[c] = struct{}{}
	}
	out := make([]string, 0, len(merged))
	for c := range merged {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (s Set) intersect(other Set) []string {
	var out []string
	for c := range s.m {
		if _, ok := other.m[c]; ok {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// ProcedureCodes splits procedure (CPT) codes into screening endoscopies and
// surgical resections.
type ProcedureCodes struct {
	Screening Set
	Resection Set
}

// DiagnosisCodes splits pathology diagnosis codes into benign and malignant.
type DiagnosisCodes struct {
	Benign    Set
	Malignant Set
}

// Catalog holds the four code-sets a run classifies claims with.
type Catalog struct {
	Procedures ProcedureCodes
	Diagnoses  DiagnosisCodes
}

// New validates and assembles a Catalog. Every set must be non-empty and the
// two halves of each pair must be disjoint.
func New(screening, resection, benign, malignant Set) (*Catalog, error) {
	named := []struct {
		name string
		set  Set
	}{
		{"screening", screening},
		{"resection", resection},
		{"benign", benign},
		{"malignant", malignant},
	}
	for _, n := range named {
		if n.set.Len() == 0 {
			return nil, fmt.Errorf("%s codes: %w", n.name, ErrEmptySet)
		}
	}
	if both := screening.intersect(resection); len(both) > 0 {
		return nil, fmt.Errorf("screening and resection codes %s: %w", strings.Join(both, ","), ErrOverlap)
	}
	if both := benign.intersect(malignant); len(both) > 0 {
		return nil, fmt.Errorf("benign and malignant codes %s: %w", strings.Join(both, ","), ErrOverlap)
	}

	return &Catalog{
		Procedures: ProcedureCodes{Screening: screening, Resection: resection},
		Diagnoses:  DiagnosisCodes{Benign: benign, Malignant: malignant},
	}, nil
}

// Overrides carries user-supplied code lists. A nil or empty list keeps the
// built-in default for that set.
type Overrides struct {
	Screening []string
	Resection []string
	Benign    []string
	Malignant []string
}

// Empty reports whether no list was supplied at all.
func (o Overrides) Empty() bool {
	return len(o.Screening) == 0 && len(o.Resection) == 0 &&
		len(o.Benign) == 0 && len(o.Malignant) == 0
}

// Build returns the Default catalog with any supplied lists substituted.
func Build(o Overrides) (*Catalog, error) {
	pick := func(user []string, def []string) Set {
		if codes := SplitList(user); len(codes) > 0 {
			return NewSet(codes...)
		}
		return NewSet(def...)
	}
	return New(
		pick(o.Screening, DefaultScreening),
		pick(o.Resection, DefaultResection),
		pick(o.Benign, DefaultBenign),
		pick(o.Malignant, DefaultMalignant),
	)
}

// SplitList flattens values that may themselves hold comma or whitespace
// separated codes ("45378,45380" or "45378 45380").
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, f := range strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		}) {
			out = append(out, f)
		}
	}
	return out
}
