// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"github.com/walteh/bulky/pkg/regexcache"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var tokenPattern = regexp.MustCompile(`%(0*)n`)

// 🔧 Engine applies transformations to single names
type Engine struct {
	cache *regexcache.Cache
}

// 🏭 NewEngine creates an engine compiling patterns through cache
func NewEngine(cache *regexcache.Cache) *Engine {
	if cache == nil {
		cache = regexcache.New(regexcache.DefaultSize)
	}
	return &Engine{cache: cache}
}

// Cache returns the pattern cache used by the engine.
func (e *Engine) Cache() *regexcache.Cache {
	return e.cache
}

// 🔀 Apply dispatches to the transformation selected by cfg.Kind. On error
// the returned string is the unchanged input.
func (e *Engine) Apply(cfg Config, index int, s string) (string, error) {
	switch cfg.Kind {
	case KindReplace:
		return e.Replace(cfg.Replace, index, s)
	case KindRemove:
		return Remove(cfg.Remove, s), nil
	case KindInsert:
		return Insert(cfg.Insert, index, s), nil
	case KindCase:
		return ChangeCase(cfg.Case, s), nil
	}
	return s, errors.Errorf("unknown operation %d", cfg.Kind)
}

// 🔁 Replace substitutes every match of p.Find. In literal mode `*` matches
// one or more characters and `?` exactly one.
func (e *Engine) Replace(p ReplaceParams, index int, s string) (string, error) {
	if p.Find == "" {
		return s, nil
	}

	flags := regexcache.FlagNone
	if !p.CaseSensitive {
		flags |= regexcache.FlagIgnoreCase
	}

	pattern := p.Find
	if !p.Regex {
		pattern = wildcardPattern(p.Find)
	}

	re, err := e.cache.Compile(pattern, flags)
	if err != nil {
		return s, err
	}

	with := Inject(p.Enum.Value(index), p.With)
	if !p.Regex {
		return re.ReplaceAllLiteralString(s, with), nil
	}
	return re.ReplaceAllString(s, expandTemplate(with)), nil
}

func wildcardPattern(find string) string {
	var b strings.Builder
	for _, r := range find {
		switch r {
		case '*':
			b.WriteString(".+")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// expandTemplate converts `\1` and `\g<name>` group references into the
// `${1}` form understood by regexp. A literal `$` is escaped.
func expandTemplate(with string) string {
	var b strings.Builder
	r := []rune(with)
	for i := 0; i < len(r); i++ {
		c := r[i]
		if c == '$' {
			b.WriteString("$$")
			continue
		}
		if c != '\\' || i+1 == len(r) {
			b.WriteRune(c)
			continue
		}

		next := r[i+1]
		switch {
		case unicode.IsDigit(next):
			j := i + 1
			for j < len(r) && j < i+3 && unicode.IsDigit(r[j]) {
				j++
			}
			fmt.Fprintf(&b, "${%s}", string(r[i+1:j]))
			i = j - 1
		case next == 'g' && i+2 < len(r) && r[i+2] == '<':
			end := indexRune(r, '>', i+3)
			if end < 0 {
				b.WriteRune(c)
				continue
			}
			fmt.Fprintf(&b, "${%s}", string(r[i+3:end]))
			i = end
		case next == '\\':
			b.WriteRune('\\')
			i++
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

func indexRune(r []rune, target rune, from int) int {
	for i := from; i < len(r); i++ {
		if r[i] == target {
			return i
		}
	}
	return -1
}

// ✂️ Remove deletes the span between the resolved From and To positions.
// The bounds may be given in either order.
func Remove(p RemoveParams, s string) string {
	r := []rune(s)
	n := len(r)

	from := resolvePosition(p.From, p.FromEnd, n)
	to := resolvePosition(p.To, p.ToEnd, n)

	lo, hi := min(from, to), max(from, to)
	return string(r[:lo]) + string(r[hi:])
}

func resolvePosition(pos int, fromEnd bool, n int) int {
	idx := pos - 1
	if fromEnd {
		idx = n - idx
	}
	return clamp(idx, 0, n)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// ➕ Insert places the injected text at the given position, counted from the
// end when Reverse is set. Overwrite replaces as many characters as it inserts.
func Insert(p InsertParams, index int, s string) string {
	text := []rune(Inject(p.Enum.Value(index), p.Text))
	r := []rune(s)
	n := len(r)

	at := clamp(p.Position-1, 0, n)
	if p.Reverse {
		at = clamp(n-(p.Position-1), 0, n)
	}

	tail := at
	if p.Overwrite {
		tail = min(at+len(text), n)
	}

	out := make([]rune, 0, n+len(text))
	out = append(out, r[:at]...)
	out = append(out, text...)
	out = append(out, r[tail:]...)
	return string(out)
}

// 🔠 ChangeCase rewrites the letter case of s.
func ChangeCase(mode CaseMode, s string) string {
	switch mode {
	case CaseTitle:
		return titleWords(s)
	case CaseLower:
		return cases.Lower(language.Und).String(s)
	case CaseUpper:
		return cases.Upper(language.Und).String(s)
	case CaseFirstUpper:
		r := []rune(s)
		if len(r) == 0 {
			return s
		}
		return string(unicode.ToTitle(r[0])) + cases.Lower(language.Und).String(string(r[1:]))
	case CaseStripAccents:
		return unidecode.Unidecode(s)
	}
	return s
}

// titleWords title-cases every run of letters, so any non-letter (digit,
// underscore, dash) starts a new word: my_photo2day -> My_Photo2Day.
func titleWords(s string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	start := -1
	for i, c := range s {
		if unicode.IsLetter(c) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(title.String(s[start:i]))
			start = -1
		}
		b.WriteRune(c)
	}
	if start >= 0 {
		b.WriteString(title.String(s[start:]))
	}
	return b.String()
}

// 💉 Inject replaces each `%n` token (optionally `%0n`, `%00n`, ...) with n,
// zero padded to one more than the number of zeros.
func Inject(n int, s string) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		width := len(tok) - 1
		return fmt.Sprintf("%0*d", width, n)
	})
}
