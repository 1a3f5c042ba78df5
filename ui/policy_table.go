package ui

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"raidash/domain/policy"
)

// SectionHTML renders the whole policy block. A tree that is a single leaf
// is shown as a one-cell table.
func SectionHTML(s policy.Section) template.HTML {
	var b strings.Builder
	b.WriteString(`<div class="policy-section">`)
	fmt.Fprintf(&b, `<div class="policy-header"><span>%s</span>`, html.EscapeString(s.Header))
	if s.TreatmentFeature != "" {
		fmt.Fprintf(&b, ` <span class="policy-treatment">%s</span>`, html.EscapeString(s.TreatmentFeature))
	}
	b.WriteString(`</div>`)
	if s.SingleCell {
		b.WriteString(`<table class="policy-table policy-root policy-single"><tr><td>`)
		writePolicyTable(&b, s.Table)
		b.WriteString(`</td></tr></table>`)
	} else {
		writePolicyTable(&b, s.Table)
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String())
}

func writePolicyTable(b *strings.Builder, t policy.Table) {
	switch t.Kind {
	case policy.KindPlaceholder:
		fmt.Fprintf(b, `<div class="policy-placeholder">%s</div>`, html.EscapeString(t.Text))
		return
	case policy.KindLeaf:
		b.WriteString(`<div class="policy-leaf">`)
		for _, line := range t.Lines {
			fmt.Fprintf(b, `<div>%s</div>`, html.EscapeString(line))
		}
		b.WriteString(`</div>`)
		return
	}

	class := "policy-table policy-" + t.Orientation.String()
	if t.Nested {
		class += " policy-nested"
	} else {
		class += " policy-root"
	}
	fmt.Fprintf(b, `<table class="%s">`, class)
	for _, row := range t.Rows {
		b.WriteString(`<tr>`)
		for _, cell := range row {
			if cell.Child != nil {
				b.WriteString(`<td class="policy-subtree">`)
				writePolicyTable(b, *cell.Child)
				b.WriteString(`</td>`)
				continue
			}
			fmt.Fprintf(b, `<th class="policy-label">%s</th>`, html.EscapeString(cell.Label))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</table>`)
}
