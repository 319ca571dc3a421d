package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/okian/sor/internal/domain/event"
	"github.com/okian/sor/internal/domain/sor"
)

const (
	nameWidth = 28
	cellWidth = 6
)

var (
	headStyle    = color.New(color.Bold, color.Underline)
	podiumStyle  = color.New(color.FgYellow, color.Bold)
	defaultStyle = color.New(color.FgHiBlack)
	totalStyle   = color.New(color.FgCyan)
)

// Terminal prints the first limit standings of board as a table. A limit
// of 0 prints every standing. Colors follow the color package's NoColor setting.
func Terminal(w io.Writer, title string, board *sor.Board, limit int) error {
	var b strings.Builder

	b.WriteString(headStyle.Sprint(title))
	b.WriteString("\n")

	b.WriteString(pad("#", 5))
	b.WriteString(pad("Competitor", nameWidth))
	b.WriteString(pad("Total", 7))
	for _, d := range event.All() {
		b.WriteString(pad(d.Code, cellWidth))
	}
	b.WriteString("\n")

	for _, st := range limitStandings(board, limit) {
		rank := pad(fmt.Sprintf("%d", st.Rank), 5)
		if st.Rank <= 3 {
			rank = podiumStyle.Sprint(rank)
		}
		b.WriteString(rank)
		b.WriteString(pad(truncate(st.Competitor.Name(), nameWidth-1), nameWidth))
		b.WriteString(totalStyle.Sprint(pad(fmt.Sprintf("%d", st.Total), 7)))
		for _, c := range st.Cells {
			cell := pad(cellText(c), cellWidth)
			if c.Kind == sor.Default {
				cell = defaultStyle.Sprint(cell)
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

func pad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
