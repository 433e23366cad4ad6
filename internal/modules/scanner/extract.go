package scanner

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/mx-space/feedguard/internal/modules/detection"
	"golang.org/x/net/html"
)

// PostSelectors locate post and comment containers, in scan order.
var PostSelectors = []string{
	`[data-urn*="urn:li:activity:"]`,
	".feed-shared-update-v2",
	".feed-shared-text",
	".comments-comment-item",
	".comments-comment-item__main-content",
}

// TextSelectors are tried inside a container; the first match of each
// contributes its text.
var TextSelectors = []string{
	".feed-shared-text__text",
	".comments-comment-item__text",
	".feed-shared-update-v2__description",
	".feed-shared-text__text--rich",
	"p",
	"span",
}

// ExtractUnits parses an HTML snapshot and returns one unit per container.
// A node matched by several selectors yields a single unit.
func ExtractUnits(r io.Reader) ([]detection.TextUnit, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return ExtractFromDocument(doc), nil
}

func ExtractFromDocument(doc *goquery.Document) []detection.TextUnit {
	seen := make(map[*html.Node]struct{})
	var units []detection.TextUnit

	for _, selector := range PostSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			node := s.Get(0)
			if _, dup := seen[node]; dup {
				return
			}
			seen[node] = struct{}{}
			text := ExtractText(s)
			units = append(units, detection.TextUnit{
				ID:   unitID(s, selector, text),
				Text: text,
			})
		})
	}
	return units
}

// ExtractText concatenates the first match of every text selector.
func ExtractText(s *goquery.Selection) string {
	var b strings.Builder
	for _, selector := range TextSelectors {
		match := s.Find(selector).First()
		if match.Length() == 0 {
			continue
		}
		b.WriteString(match.Text())
		b.WriteByte(' ')
	}
	return strings.TrimSpace(b.String())
}

// unitID prefers the element's own identity attributes. Without them the ID
// is derived from the selector and the extracted text, so a different post
// rendered in the same slot of a later snapshot gets a new identity.
func unitID(s *goquery.Selection, selector, text string) string {
	for _, attr := range []string{"data-urn", "data-id", "id"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return selector + "#" + contentID(selector, text)
}

var unitNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://feedguard/unit"))

func contentID(selector, text string) string {
	return uuid.NewSHA1(unitNamespace, []byte(selector+"\x00"+strings.TrimSpace(text))).String()
}
