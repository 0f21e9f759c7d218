// Package format renders a completed station table as the challenge's
// required single output line: stations sorted by raw byte order,
// each printed as NAME=MIN/AVG/MAX with one fractional digit.
package format

import (
	"sort"
	"strconv"
	"strings"

	"github.com/coldcutz/brc-core/internal/stationtable"
)

// Render sorts the table's entries by raw byte order of station name
// and writes them into a single `{...}` line with no trailing newline,
// exactly as spec §4.8 / §8 require.
func Render(tab *stationtable.Table) string {
	return render(tab.Entries())
}

// RenderSwiss is the SwissTable equivalent of Render, kept separate so
// callers choosing the oracle backend don't need to convert it to a
// Table first.
func RenderSwiss(tab *stationtable.SwissTable) string {
	return render(tab.Entries())
}

func render(entries []stationtable.Named) string {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	var b strings.Builder
	b.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Name)
		b.WriteByte('=')
		writeTenths(&b, int64(e.Entry.Min))
		b.WriteByte('/')
		writeTenths(&b, e.Entry.MeanTenths())
		b.WriteByte('/')
		writeTenths(&b, int64(e.Entry.Max))
	}
	b.WriteByte('}')
	return b.String()
}

// writeTenths formats a fixed-point value (scaled by 10, e.g. 342 for
// 34.2) as a decimal with exactly one fractional digit, including the
// sign for negative values.
func writeTenths(b *strings.Builder, tenths int64) {
	if tenths < 0 {
		b.WriteByte('-')
		tenths = -tenths
	}
	whole := tenths / 10
	frac := tenths % 10
	b.WriteString(strconv.FormatInt(whole, 10))
	b.WriteByte('.')
	b.WriteByte(byte('0' + frac))
}
