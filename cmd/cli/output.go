package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
)

var (
	okColor      = color.New(color.FgGreen, color.Bold)
	pendingColor = color.New(color.FgYellow)
	failedColor  = color.New(color.FgRed)
	labelColor   = color.New(color.Faint)
)

func printOK(w io.Writer, msg string) {
	okColor.Fprintln(w, "✓ "+msg) //nolint:errcheck
}

func statusColor(s payment.Status) *color.Color {
	switch s {
	case payment.StatusSucceeded:
		return okColor
	case payment.StatusPending:
		return pendingColor
	default:
		return failedColor
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func printTransaction(w io.Writer, tx *payment.Transaction) {
	row := func(label, value string) {
		labelColor.Fprintf(w, "%-14s", label) //nolint:errcheck
		fmt.Fprintln(w, value)
	}
	row("provider id", tx.ProviderTransactionID)
	row("id", fmt.Sprint(tx.ID))
	row("account", fmt.Sprint(tx.AccountID))
	row("amount", fmt.Sprintf("%d (%s)", tx.AmountMinorUnits, tx.AmountMajorUnits().StringFixed(2)))
	labelColor.Fprintf(w, "%-14s", "status") //nolint:errcheck
	statusColor(tx.Status).Fprintln(w, tx.Status) //nolint:errcheck
	if tx.Reason != nil {
		row("reason", fmt.Sprint(*tx.Reason))
	}
	row("created", formatTime(&tx.CreatedAt))
	row("performed", formatTime(tx.PerformedAt))
	row("cancelled", formatTime(tx.CancelledAt))
}

var (
	tableBorder = lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(tableBorder)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	failedStyle = cellStyle.Foreground(lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"})
)

var statusStyles = map[payment.Status]lipgloss.Style{
	payment.StatusSucceeded: cellStyle.Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}),
	payment.StatusPending:   cellStyle.Foreground(lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}),
}

const statusColumn = 3

func printStatement(w io.Writer, txs []*payment.Transaction) {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			tx.ProviderTransactionID,
			fmt.Sprint(tx.AccountID),
			fmt.Sprint(tx.AmountMinorUnits),
			tx.Status.String(),
			formatTime(&tx.CreatedAt),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tableBorder)).
		Headers("PROVIDER ID", "ACCOUNT", "AMOUNT", "STATUS", "CREATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == statusColumn:
				if st, ok := statusStyles[txs[row].Status]; ok {
					return st
				}
				return failedStyle
			default:
				return cellStyle
			}
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d transaction(s)\n", len(txs))
}
