package records

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// SummaryHeader is the first line of a rendered summary; it's also used to recognize earlier summary comments
const SummaryHeader = "## Image Tag Publish Status\n"

// RenderSummary renders the list as a markdown table
func RenderSummary(list List) string {

	var sb strings.Builder

	sb.WriteString(SummaryHeader)
	sb.WriteString("| Tag | Publish Time |\n")
	sb.WriteString("| :--- | :---: |\n")
	for _, r := range list {
		sb.WriteString(fmt.Sprintf("| %v | %v |\n", r.Name, r.Date))
	}

	return sb.String()
}

// RenderTable writes the list as a plain console table, highlighting the record for tag
func RenderTable(w io.Writer, list List, tag string) {

	data := make([][]string, 0, len(list))
	for _, r := range list {
		marker := ""
		if r.Name == tag {
			marker = "*"
		}
		data = append(data, []string{
			r.Name,
			r.Date,
			marker,
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Tag", "Publish Time", "Updated"})
	table.SetFooter([]string{"Total", fmt.Sprintf("%v", len(list)), ""})
	table.SetBorder(false)
	table.AppendBulk(data)
	table.Render()
}
