package ui

import (
	"strings"

	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// fitLeft shortens s to at most width cells by dropping leading clusters,
// so the least significant digits of a long number stay visible
func fitLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	var clusters []string
	var widths []int
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		clusters = append(clusters, g.Str())
		widths = append(widths, g.Width())
	}

	budget := width - uniseg.StringWidth(ellipsis)
	i := len(clusters)
	for i > 0 && widths[i-1] <= budget {
		budget -= widths[i-1]
		i--
	}
	return ellipsis + strings.Join(clusters[i:], "")
}

// fitRight shortens s to at most width cells by dropping trailing clusters
func fitRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	budget := width - uniseg.StringWidth(ellipsis)
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if g.Width() > budget {
			break
		}
		budget -= g.Width()
		b.WriteString(g.Str())
	}
	b.WriteString(ellipsis)
	return b.String()
}

// padLeft right-aligns s in width cells
func padLeft(s string, width int) string {
	n := width - uniseg.StringWidth(s)
	if n <= 0 {
		return s
	}
	return strings.Repeat(" ", n) + s
}
