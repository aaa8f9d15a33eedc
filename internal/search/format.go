// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/muchan23/paper-research-agent/pkg/types"
)

const summaryTop = 5

// Summary renders a short human-readable digest of a retrieval: the
// headline counts and the top papers with authors, year, citations, and
// DOI. This is the text shown in chat after a search completes.
func Summary(res Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Found %d papers", res.Actual)
	if res.TotalAvailable > res.Actual {
		fmt.Fprintf(&b, " (of %d matching)", res.TotalAvailable)
	}
	b.WriteString(".\n")
	if res.Truncated {
		b.WriteString("More results are available; raise the result limit to see them.\n")
	}
	if res.Warning != "" {
		fmt.Fprintf(&b, "Note: %s\n", res.Warning)
	}

	n := len(res.Papers)
	if n == 0 {
		return b.String()
	}
	if n > summaryTop {
		n = summaryTop
	}
	b.WriteString("\n")
	for i, p := range res.Papers[:n] {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Title)
		if line := authorLine(p.Authors); line != "" {
			fmt.Fprintf(&b, "   %s\n", line)
		}
		var facts []string
		if p.PublicationYear > 0 {
			facts = append(facts, fmt.Sprintf("%d", p.PublicationYear))
		}
		facts = append(facts, fmt.Sprintf("%d citations", p.CitationCount))
		if p.DOI != "" {
			facts = append(facts, "doi:"+p.DOI)
		}
		fmt.Fprintf(&b, "   %s\n", strings.Join(facts, " | "))
	}
	return b.String()
}

// authorLine renders up to three authors, with "et al." beyond that.
func authorLine(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	if len(authors) <= 3 {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:3], ", ") + " et al."
}

// FormatTable renders all papers as an aligned plain-text table for
// terminal output.
func FormatTable(papers []types.Paper) string {
	if len(papers) == 0 {
		return "No papers found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-6s %-9s %s\n", "#", "Year", "Citations", "Title")
	for i, p := range papers {
		year := "-"
		if p.PublicationYear > 0 {
			year = fmt.Sprintf("%d", p.PublicationYear)
		}
		title := p.Title
		if len(title) > 80 {
			title = title[:77] + "..."
		}
		fmt.Fprintf(&b, "%-4d %-6s %-9d %s\n", i+1, year, p.CitationCount, title)
	}
	return b.String()
}

// FormatJSON renders a retrieval result as indented JSON.
func FormatJSON(res Result) (string, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling result: %w", err)
	}
	return string(data) + "\n", nil
}
