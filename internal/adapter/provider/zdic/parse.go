package zdic

import (
	"fmt"
	"io"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/heartmarshall/wenyan-gloss/internal/provider"
)

// Selectors of the three explanation blocks of a word page.
var (
	basicSel    = cascadia.MustCompile(".zdict div.content.definitions.jnr>ol>li")
	detailedSel = cascadia.MustCompile("#xxjs div.content.definitions.xnr>p")
	phraseSel   = cascadia.MustCompile(".nr-box div.content.definitions .jnr>p")
)

// Parse extracts the basic, detailed and phrase explanations from a word page.
// Missing blocks yield empty lists.
func Parse(r io.Reader) (*provider.DefinitionResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return &provider.DefinitionResult{
		Basic:    selectText(doc, basicSel),
		Detailed: selectText(doc, detailedSel),
		Phrases:  selectText(doc, phraseSel),
	}, nil
}

func selectText(doc *html.Node, sel cascadia.Selector) []string {
	nodes := cascadia.QueryAll(doc, sel)
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := textOf(n); t != "" {
			out = append(out, t)
		}
	}
	return out
}
