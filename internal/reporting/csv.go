package reporting

import (
	"fmt"
	"strconv"
	"strings"

	"token-rugcheck/internal/domain"
)

// RenderHoldersCSV renders holders as CSV string, largest first.
func RenderHoldersCSV(holders []domain.Holder) string {
	var sb strings.Builder

	// Header
	sb.WriteString("rank,account,amount,percentage\n")

	// Rows
	for i, h := range domain.SortHoldersByAmount(holders) {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%.6f\n",
			i+1,
			h.Account,
			strconv.FormatFloat(h.Amount, 'f', -1, 64),
			h.Percentage,
		))
	}

	return sb.String()
}
