// Package htmlscan extracts image references from rich-text note bodies.
package htmlscan

import (
	"strings"

	"golang.org/x/net/html"
)

// RefSet is a set of image source URLs found in an HTML fragment.
type RefSet map[string]struct{}

func (s RefSet) Contains(url string) bool {
	_, ok := s[url]
	return ok
}

func (s RefSet) Remove(url string) {
	delete(s, url)
}

// ImageSources tokenizes an HTML fragment and collects the src attribute of
// every img element. Only img elements are counted; the first src attribute
// on a tag wins. Duplicate URLs collapse into one entry.
//
// A tokenizer is used rather than a full tree parse so that malformed or
// truncated markup still yields the references that are present.
func ImageSources(fragment string) RefSet {
	refs := make(RefSet)
	z := html.NewTokenizer(strings.NewReader(fragment))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// End of fragment or unrecoverable markup.
			return refs
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		name, hasAttr := z.TagName()
		if string(name) != "img" || !hasAttr {
			continue
		}

		for {
			key, val, more := z.TagAttr()
			if string(key) == "src" {
				if src := string(val); src != "" {
					refs[src] = struct{}{}
				}
				break
			}
			if !more {
				break
			}
		}
	}
}
