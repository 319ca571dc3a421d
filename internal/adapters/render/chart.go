package render

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/sor/internal/domain/sor"
)

var (
	chartBackground = drawing.ColorFromHex("212529")
	chartText       = drawing.ColorFromHex("DEE2E6")
	chartBar        = drawing.ColorFromHex("0D6EFD")
)

// TotalsChart renders the totals of the best topN standings as a PNG bar chart.
// A board without standings renders a placeholder.
func TotalsChart(board *sor.Board, title string, topN int) ([]byte, error) {
	standings := limitStandings(board, topN)
	if len(standings) == 0 {
		return placeholder("No competitors")
	}

	bars := make([]chart.Value, len(standings))
	peak := 0
	for i, st := range standings {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%d. %s", st.Rank, st.Competitor.Name()),
			Value: float64(st.Total),
			Style: chart.Style{FillColor: chartBar, StrokeColor: chartBar},
		}
		peak = max(peak, st.Total)
	}

	graph := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: chartText},
		Width:      max(640, 80*len(bars)+200),
		Height:     480,
		BarWidth:   40,
		BarSpacing: 20,
		Background: chart.Style{FillColor: chartBackground, Padding: chart.Box{Top: 40, Bottom: 120}},
		Canvas:     chart.Style{FillColor: chartBackground},
		XAxis:      chart.Style{FontColor: chartText, TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: chartText},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(peak + 1)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func placeholder(msg string) ([]byte, error) {
	graph := chart.BarChart{
		Width:      400,
		Height:     240,
		BarWidth:   40,
		Background: chart.Style{FillColor: chartBackground},
		Canvas:     chart.Style{FillColor: chartBackground},
		XAxis:      chart.Style{FontColor: chartText},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Bars:       []chart.Value{{Label: msg, Value: 0}},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
