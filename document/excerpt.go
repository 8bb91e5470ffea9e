package document

import (
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"pbe/common"
)

// Excerpt derives a short meta description for the page: the first couple of
// sentences from the hero subtitle, falling back to the first text element.

const maxExcerptSentences = 2

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
)

func sentenceTokenizer() *sentences.DefaultSentenceTokenizer {
	tokenizerOnce.Do(func() {
		// english training data ships with the library; error only on a
		// corrupted build
		tokenizer, _ = english.NewSentenceTokenizer(nil)
	})
	return tokenizer
}

// Excerpt returns the derived description, empty when the page has no text
// to draw from.
func (d *Document) Excerpt() string {
	source := ""
	for _, sec := range d.Sections {
		if sec.Kind == common.SectionHero {
			if s, _ := sec.Content["subtitle"].(string); s != "" {
				source = s
				break
			}
		}
	}
	if source == "" {
		for _, sec := range d.Sections {
			for _, el := range sec.Elements {
				if el.Type == common.ElementText {
					if s, _ := el.Content["text"].(string); s != "" {
						source = s
						break
					}
				}
			}
			if source != "" {
				break
			}
		}
	}
	if source == "" {
		return ""
	}

	tok := sentenceTokenizer()
	if tok == nil {
		return strings.TrimSpace(source)
	}
	var parts []string
	for i, s := range tok.Tokenize(source) {
		if i >= maxExcerptSentences {
			break
		}
		parts = append(parts, strings.TrimSpace(s.Text))
	}
	return strings.Join(parts, " ")
}
