package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/foodgram/backend/internal/types"
)

// RenderShoppingList formats the aggregated cart rows into the plain-text
// export. Output is byte-identical for the same rows and timestamp.
func RenderShoppingList(displayName string, generatedAt time.Time, rows []types.ShoppingListRow) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Shopping list for: %s\n\n", displayName)
	fmt.Fprintf(&b, "Date: %s\n\n", generatedAt.Format("2006-01-02"))

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("- %s (%s) - %d", row.Name, row.MeasurementUnit, row.Total))
	}
	b.WriteString(strings.Join(lines, "\n"))

	fmt.Fprintf(&b, "\n\nFoodgram (%d)", generatedAt.Year())

	return b.String()
}

// ShoppingListFilename builds the attachment filename, percent-encoded so
// non-ASCII usernames survive the Content-Disposition header.
func ShoppingListFilename(username string) string {
	return url.PathEscape(username + "_shopping_list.txt")
}
