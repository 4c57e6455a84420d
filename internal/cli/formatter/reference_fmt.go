package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mbetts/wosync/internal/domain"
	"github.com/mbetts/wosync/internal/repository"
)

// FormatWorkOrderList renders the local work-order table.
func FormatWorkOrderList(orders []*domain.WorkOrder) string {
	rows := make([][]string, 0, len(orders))
	for _, wo := range orders {
		status := StyleGreen.Render("open")
		if !wo.Open {
			status = StyleDim.Render("closed")
		}
		rows = append(rows, []string{wo.Number, wo.ControlNumber, status})
	}
	return RenderTable([]string{"NUMBER", "CONTROL", "STATUS"}, rows)
}

// FormatCodeTable renders the verb and noun tables, keywords sorted.
func FormatCodeTable(table *repository.CodeTable) string {
	var b strings.Builder

	verbRows := make([][]string, 0, len(table.Verbs))
	for _, keyword := range sortedKeys(table.Verbs) {
		def := table.Verbs[keyword]
		noun := ""
		if def.RequiresNoun {
			noun = "required"
		}
		verbRows = append(verbRows, []string{keyword, fmt.Sprintf("%d", def.Code), noun})
	}
	b.WriteString(Header("Verbs"))
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"KEYWORD", "CODE", "NOUN"}, verbRows))

	nounRows := make([][]string, 0, len(table.Nouns))
	for _, keyword := range sortedKeys(table.Nouns) {
		nounRows = append(nounRows, []string{keyword, fmt.Sprintf("%d", table.Nouns[keyword])})
	}
	b.WriteString("\n")
	b.WriteString(Header("Nouns"))
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"KEYWORD", "CODE"}, nounRows))

	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
