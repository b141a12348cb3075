// Package copyright derives per-file copyright ownership from version
// control attribution records.
package copyright

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Contribution is a single contiguous block of lines attributed to one
// author in one file. Contributions are transient: they are produced by
// blame extraction and consumed immediately by Aggregate.
type Contribution struct {
	Author string
	Email  string
	Year   int
	Path   string
}

// Owner identifies an additional copyright holder (typically corporate)
// that is attributed across every processed file. Email may be empty.
type Owner struct {
	Name  string
	Email string
}

var ownerRe = regexp.MustCompile(`^(.+?)\s*<([^<>]+)>$`)

// ParseOwner parses an owner string in "Name <email>" form. A bare name
// without angle brackets is accepted as an owner with no email address.
func ParseOwner(s string) (Owner, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Owner{}, &ConfigError{Message: "empty owner string"}
	}
	if m := ownerRe.FindStringSubmatch(s); m != nil {
		return Owner{Name: m[1], Email: m[2]}, nil
	}
	if strings.ContainsAny(s, "<>") {
		return Owner{}, &ConfigError{Message: fmt.Sprintf("malformed owner string %q, expected \"Name <email>\"", s)}
	}
	return Owner{Name: s}, nil
}

// YearSet is a set of calendar years in which an owner contributed.
type YearSet map[int]struct{}

// NewYearSet returns a YearSet containing the given years.
func NewYearSet(years ...int) YearSet {
	s := make(YearSet, len(years))
	for _, y := range years {
		s[y] = struct{}{}
	}
	return s
}

// Add inserts a year into the set.
func (s YearSet) Add(year int) { s[year] = struct{}{} }

// Union inserts every year of other into the set.
func (s YearSet) Union(other YearSet) {
	for y := range other {
		s[y] = struct{}{}
	}
}

// Min returns the earliest year in the set, or 0 if the set is empty.
func (s YearSet) Min() int {
	min := 0
	for y := range s {
		if min == 0 || y < min {
			min = y
		}
	}
	return min
}

// Max returns the latest year in the set, or 0 if the set is empty.
func (s YearSet) Max() int {
	max := 0
	for y := range s {
		if y > max {
			max = y
		}
	}
	return max
}

// String renders the set as a single year or an inclusive range.
func (s YearSet) String() string {
	min, max := s.Min(), s.Max()
	if min == max {
		return fmt.Sprintf("%d", min)
	}
	return fmt.Sprintf("%d-%d", min, max)
}

// Copyright is one owner's claim over a file: the owner identity plus the
// set of years in which they contributed. Years is a set because an
// owner's contributions may span non-contiguous years.
type Copyright struct {
	Author string
	Email  string
	Years  YearSet
}

// String renders the claim as "<years> <author> <email>", omitting the
// email when the owner has none.
func (c Copyright) String() string {
	if c.Email == "" {
		return fmt.Sprintf("%s %s", c.Years, c.Author)
	}
	return fmt.Sprintf("%s %s <%s>", c.Years, c.Author, c.Email)
}

// Aggregate collapses contributions into one Copyright per distinct
// (author, email) pair per file, then appends one synthetic entry per
// additional owner spanning the file's full observed year range. Entries
// are ordered most-recently-active first, ties broken alphabetically by
// author.
//
// Two contributors sharing a display name but different email addresses
// remain distinct owners; the grouping key is the full (author, email)
// pair.
func Aggregate(contributions []Contribution, additional []Owner) map[string][]Copyright {
	type key struct {
		author string
		email  string
	}
	files := make(map[string]map[key]YearSet)
	order := make(map[string][]key)

	for _, c := range contributions {
		k := key{c.Author, c.Email}
		byOwner := files[c.Path]
		if byOwner == nil {
			byOwner = make(map[key]YearSet)
			files[c.Path] = byOwner
		}
		if years, ok := byOwner[k]; ok {
			years.Add(c.Year)
		} else {
			byOwner[k] = NewYearSet(c.Year)
			order[c.Path] = append(order[c.Path], k)
		}
	}

	result := make(map[string][]Copyright, len(files))
	for path, byOwner := range files {
		allYears := make(YearSet)
		entries := make([]Copyright, 0, len(byOwner)+len(additional))
		for _, k := range order[path] {
			years := byOwner[k]
			allYears.Union(years)
			entries = append(entries, Copyright{Author: k.author, Email: k.email, Years: years})
		}
		for _, owner := range additional {
			years := make(YearSet)
			years.Union(allYears)
			entries = append(entries, Copyright{Author: owner.Name, Email: owner.Email, Years: years})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			mi, mj := entries[i].Years.Max(), entries[j].Years.Max()
			if mi != mj {
				return mi > mj
			}
			return entries[i].Author < entries[j].Author
		})
		result[path] = entries
	}
	return result
}
