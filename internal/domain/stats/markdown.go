package stats

import (
	"fmt"
	"strings"

	"alphadash/internal/shared/currency"
)

// Markdown renders the half-month report and per-account history as a
// markdown document, for terminal and HTML rendering.
func Markdown(title string, periods []Period, history HistoryStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Lifetime net **%s** from %d airdrops (revenue %s, cost %s).\n\n",
		currency.Signed(history.Net), history.Airdrops,
		currency.Format(history.Revenue), currency.Format(history.Cost))

	b.WriteString("## Half-month periods\n\n")
	if len(periods) == 0 {
		b.WriteString("_No records yet._\n\n")
	} else {
		b.WriteString("| Period | Records | Revenue | Cost | Net |\n")
		b.WriteString("|---|---:|---:|---:|---:|\n")
		for _, p := range periods {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
				p.Period, p.Records, currency.Format(p.Revenue), currency.Format(p.Cost), currency.Signed(p.Net))
		}
		b.WriteString("\n")
	}

	if len(history.PerAccount) > 0 {
		b.WriteString("## Accounts\n\n")
		b.WriteString("| Account | Records | Airdrops | Revenue | Cost | Net |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|\n")
		for _, a := range history.PerAccount {
			fmt.Fprintf(&b, "| %s | %d | %d | %s | %s | %s |\n",
				a.AccountID, a.Records, a.Airdrops,
				currency.Format(a.Revenue), currency.Format(a.Cost), currency.Signed(a.Net))
		}
	}
	return b.String()
}
