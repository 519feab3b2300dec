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

package plan

import (
	"sort"
	"strings"

	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/entry"
	"github.com/walteh/bulky/pkg/preview"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// 📦 Item is one planned rename
type Item struct {
	Entry   *entry.Entry
	From    backend.Location
	OldName string
	NewName string
}

// Changed reports whether the item renames anything.
func (i Item) Changed() bool {
	return i.NewName != i.OldName
}

// To returns the location after the rename.
func (i Item) To() backend.Location {
	if !i.Changed() {
		return i.From
	}
	return i.From.Parent().Child(i.NewName)
}

// IsDir reports whether the item is a directory.
func (i Item) IsDir() bool {
	return i.Entry != nil && i.Entry.IsDir
}

// FromResult builds unsorted items from a preview pass.
func FromResult(res *preview.Result) []Item {
	items := make([]Item, 0, len(res.Proposals))
	for _, p := range res.Proposals {
		items = append(items, Item{
			Entry:   p.Entry,
			From:    p.Entry.Location,
			OldName: p.OldName,
			NewName: p.NewName,
		})
	}
	return items
}

// 🌳 Sort returns items in execution order: files before directories, and
// within a volume every path before its ancestors. Remaining ties are broken
// by locale aware comparison of path components.
func Sort(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)

	c := newComparator()
	sort.SliceStable(out, func(i, j int) bool {
		return c.compare(out[i], out[j]) < 0
	})
	return out
}

type comparator struct {
	collator *collate.Collator
}

func newComparator() *comparator {
	return &comparator{collator: collate.New(language.Und)}
}

func (c *comparator) compare(a, b Item) int {
	if a.IsDir() != b.IsDir() {
		if a.IsDir() {
			return 1
		}
		return -1
	}

	if !a.From.SameVolume(b.From) {
		if d := strings.Compare(a.From.Scheme, b.From.Scheme); d != 0 {
			return d
		}
		return strings.Compare(a.From.Host, b.From.Host)
	}

	ac, bc := a.From.Components(), b.From.Components()
	for i := 0; i < len(ac) && i < len(bc); i++ {
		if d := c.component(ac[i], bc[i]); d != 0 {
			return d
		}
	}

	// one path contains the other, the deeper one goes first
	switch {
	case len(ac) > len(bc):
		return -1
	case len(ac) < len(bc):
		return 1
	}
	return 0
}

func (c *comparator) component(a, b string) int {
	if a == b {
		return 0
	}
	if d := c.collator.CompareString(a, b); d != 0 {
		return d
	}
	return strings.Compare(a, b)
}
