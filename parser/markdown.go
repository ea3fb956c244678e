package parser

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
)

// newMarkdownConverter builds a reusable, goroutine-safe Converter.
// Only the base and commonmark plugins are wired: PubPlat posts carry
// no tabular content, so the table plugin has nothing to convert.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
}

// inlineImageParents are the tags under which spec.md says inline
// image suppression applies — an <img> inside one of these keeps its
// natural (inline) position instead of being forced onto its own line.
// TODO: the original ImageBlockConverter drops these images entirely
// rather than varying block-wrapping; revisit if a post surfaces where
// that distinction matters.
var inlineImageParents = map[string]bool{"section": true, "span": true}

// blockifyImages wraps every <img> that is not inside an inline-marked
// parent in its own <p>, so the commonmark renderer's paragraph
// spacing produces the "\n![alt](src)\n" block form spec.md requires,
// without needing a custom per-node renderer.
func blockifyImages(sel *goquery.Selection) {
	sel.Find("img").Each(func(_ int, img *goquery.Selection) {
		if hasInlineAncestor(img) {
			return
		}
		parent := img.Parent()
		if goquery.NodeName(parent) == "p" && parent.Children().Length() == 1 {
			return
		}
		outer, err := goquery.OuterHtml(img)
		if err != nil {
			return
		}
		img.ReplaceWithHtml("<p>" + outer + "</p>")
	})
}

func hasInlineAncestor(img *goquery.Selection) bool {
	node := img.Get(0)
	for n := node.Parent; n != nil; n = n.Parent {
		if inlineImageParents[n.Data] {
			return true
		}
	}
	return false
}
