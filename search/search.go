// Package search implements post-hoc wildcard search over a loaded
// result set (C9): one pattern, compiled once, matched against every
// record's body.
package search

import (
	"regexp"
	"strings"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

// urlSafeClass is the character class a URL-mode wildcard's */? may
// expand to (spec.md §4.9).
const urlSafeClass = `[A-Za-z0-9_.~:/#@!$&'()+,;=%?\-\[\]]`

// trailingGarbage is stripped, repeatedly, from the right end of every
// URL-mode match.
const trailingGarbage = "*)]>\"'.,，。！？、；：\"\"''）】》\n\r\t "

// Result is one record's distinct matches, in first-seen order. A
// record with zero matches is never produced.
type Result struct {
	Record  models.PostRecord
	Matches []string
}

// Search compiles pattern once and scans every record's Body for
// matches, returning only records that matched at least once.
func Search(records []models.PostRecord, pattern string) ([]Result, error) {
	urlMode := strings.HasPrefix(pattern, "http://") || strings.HasPrefix(pattern, "https://")

	re, err := compile(pattern, urlMode)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, r := range records {
		matches := distinctMatches(re, r.Body, urlMode)
		if len(matches) == 0 {
			continue
		}
		results = append(results, Result{Record: r, Matches: matches})
	}
	return results, nil
}

func distinctMatches(re *regexp.Regexp, body string, urlMode bool) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range re.FindAllString(body, -1) {
		if urlMode {
			m = strings.TrimRight(m, trailingGarbage)
		}
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// compile translates the wildcard pattern into a regexp: `*` and `?`
// expand per mode, `\` escapes the following rune literally, and
// every other character is taken literally (spec.md §4.9).
func compile(pattern string, urlMode bool) (*regexp.Regexp, error) {
	var b strings.Builder
	if !urlMode {
		b.WriteString("(?i)")
	}

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '\\' && i+1 < len(runes):
			i++
			b.WriteString(regexp.QuoteMeta(string(runes[i])))
		case c == '*':
			if urlMode {
				b.WriteString(urlSafeClass + "*")
			} else {
				b.WriteString(".*")
			}
		case c == '?':
			if urlMode {
				b.WriteString(urlSafeClass)
			} else {
				b.WriteString(".")
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	return regexp.Compile(b.String())
}
