package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"freight-rate/internal/config"
)

func money(d decimal.Decimal) string {
	return fmt.Sprintf("$%s %s", humanize.Comma(d.Round(0).IntPart()), config.Get().Pricing.Currency)
}

func percent(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func km(v float64) string {
	return humanize.FormatFloat("#,###.#", v) + " km"
}

func kg(v float64) string {
	return humanize.FormatFloat("#,###.", v) + " kg"
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table prints aligned label/value rows inside a box
type table struct {
	w     io.Writer
	title string
	rows  [][2]string
}

func newTable(w io.Writer, title string) *table {
	return &table{w: w, title: title}
}

func (t *table) row(label, value string) {
	t.rows = append(t.rows, [2]string{label, value})
}

func (t *table) sep() {
	t.rows = append(t.rows, [2]string{"", ""})
}

func (t *table) flush() {
	const width = 72
	line := strings.Repeat("─", width)
	fmt.Fprintf(t.w, "┌%s┐\n", line)
	fmt.Fprintf(t.w, "│ %-*s │\n", width-2, t.title)
	fmt.Fprintf(t.w, "├%s┤\n", line)
	for _, r := range t.rows {
		if r[0] == "" && r[1] == "" {
			fmt.Fprintf(t.w, "├%s┤\n", line)
			continue
		}
		fmt.Fprintf(t.w, "│ %-40s %29s │\n", truncate(r[0], 40), truncate(r[1], 29))
	}
	fmt.Fprintf(t.w, "└%s┘\n", line)
}

func truncate(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
