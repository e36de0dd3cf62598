package render

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/leonardcser/feed-mcp/internal/feed"
)

// Markdown renders items as a numbered markdown list. Descriptions may carry
// HTML and are converted to markdown.
func Markdown(items []feed.Item) string {
	if len(items) == 0 {
		return "No feed items."
	}
	var sb strings.Builder
	for i, it := range items {
		sb.WriteString(fmt.Sprintf("%d. ![%s](%s)", i+1, it.ID, it.ImageURL))
		if it.Location != "" {
			sb.WriteString("\n   Location: ")
			sb.WriteString(singleLine(it.Location))
		}
		if it.Description != "" {
			desc, err := htmltomarkdown.ConvertString(it.Description)
			if err != nil {
				desc = plainText(it.Description)
			}
			sb.WriteString("\n   ")
			sb.WriteString(strings.ReplaceAll(strings.TrimSpace(desc), "\n", "\n   "))
		}
		if i < len(items)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// Text renders items one per line with tags stripped from descriptions.
func Text(items []feed.Item) string {
	if len(items) == 0 {
		return "No feed items."
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		fields := []string{it.ID.String(), it.ImageURL}
		if it.Location != "" {
			fields = append(fields, singleLine(it.Location))
		}
		if it.Description != "" {
			fields = append(fields, plainText(it.Description))
		}
		lines = append(lines, strings.Join(fields, " | "))
	}
	return strings.Join(lines, "\n")
}

// plainText drops markup and collapses whitespace.
func plainText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return singleLine(s)
	}
	doc.Find("script, style").Remove()
	return singleLine(doc.Text())
}

// singleLine trims and collapses internal whitespace/newlines to single spaces.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
