// Package reporting renders check results for terminals and files.
package reporting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"token-rugcheck/internal/analysis"
	"token-rugcheck/internal/domain"
	"token-rugcheck/internal/units"
)

// TopHolders is how many holders the text report lists.
const TopHolders = 10

// RenderText writes a human readable summary of result to w:
// overview, top holders, recent transfers, score and the model's report.
func RenderText(w io.Writer, result *domain.AnalysisResult) error {
	if result == nil || result.TokenData == nil {
		return fmt.Errorf("empty result")
	}
	data := result.TokenData
	info := data.TokenInfo

	var sb strings.Builder

	// Overview
	sb.WriteString(fmt.Sprintf("%s (%s)\n", info.Name, info.Symbol))
	sb.WriteString(fmt.Sprintf("Address:      %s\n", info.Address))
	sb.WriteString(fmt.Sprintf("Decimals:     %d\n", info.Decimals))
	sb.WriteString(fmt.Sprintf("Total supply: %s\n", FormatAmount(units.ToFloat(info.TotalSupply))))
	sb.WriteString(fmt.Sprintf("Source:       %s\n\n", sourceStatus(data)))
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}

	// Holders
	io.WriteString(w, "Top holders\n")
	holders := domain.SortHoldersByAmount(data.Holders)
	if len(holders) == 0 {
		io.WriteString(w, "  holder list unavailable\n\n")
	} else {
		if len(holders) > TopHolders {
			holders = holders[:TopHolders]
		}
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"#", "Account", "Amount", "Share"})
		for i, h := range holders {
			table.Append([]string{
				fmt.Sprintf("%d", i+1),
				ShortAddress(h.Account),
				FormatAmount(h.Amount),
				fmt.Sprintf("%.2f%%", h.Percentage),
			})
		}
		table.Render()
		io.WriteString(w, "\n")
	}

	// Transfers
	io.WriteString(w, "Recent transfers\n")
	txs := domain.RecentTransactions(data.Transactions, domain.MaxDisplayedTransactions)
	if len(txs) == 0 {
		io.WriteString(w, "  no transfers\n\n")
	} else {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"When", "From", "To", "Value", "Tx"})
		for _, tx := range txs {
			table.Append([]string{
				FormatTimestamp(tx.Timestamp),
				ShortAddress(tx.From),
				ShortAddress(tx.To),
				FormatAmount(units.ToFloat(tx.Value)),
				ShortAddress(tx.Hash),
			})
		}
		table.Render()
		io.WriteString(w, "\n")
	}

	// Score
	score := analysis.ExtractScore(result.Analysis)
	rating := analysis.RatingFor(score)
	fmt.Fprintf(w, "Score: %d/100 (%s)\n%s\n\n", score, rating, rating.Description())

	_, err := io.WriteString(w, strings.TrimSpace(result.Analysis)+"\n")
	return err
}

// ShortAddress keeps the first and last 8 characters of long identifiers.
func ShortAddress(s string) string {
	if len(s) <= 19 {
		return s
	}
	return s[:8] + "..." + s[len(s)-8:]
}

// FormatAmount groups thousands and keeps up to 4 fractional digits.
func FormatAmount(v float64) string {
	return humanize.CommafWithDigits(v, 4)
}

// FormatTimestamp renders unix seconds relative to now; zero means unknown.
func FormatTimestamp(ts int64) string {
	if ts <= 0 {
		return "unknown"
	}
	return humanize.Time(time.Unix(ts, 0))
}

func sourceStatus(data *domain.TokenData) string {
	if len(data.SourceCode) == 0 || string(data.SourceCode) == "null" {
		return "not returned"
	}
	return "returned by explorer"
}
