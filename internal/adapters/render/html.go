package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/okian/sor/internal/domain/event"
	"github.com/okian/sor/internal/domain/sor"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.1/dist/css/bootstrap.min.css" rel="stylesheet" crossorigin="anonymous">
</head>
<body data-bs-theme="dark">
<div class="container-fluid">
<h1>{{.Title}}</h1>
<table class="table table-striped table-sm">
<thead>
<tr><th>Rank</th><th>Competitor</th><th>{{.Title}}</th>{{range .Headers}}<th title="{{.Label}}">{{.Code}}</th>{{end}}</tr>
</thead>
<tbody>
{{range .Rows}}<tr><td>{{.Rank}}</td><td>{{.Name}}</td><td>{{.Total}}</td>{{range .Cells}}<td{{if .Default}} class="table-warning"{{end}}>{{.Text}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</div>
</body>
</html>
`))

type pageData struct {
	Title   string
	Headers [event.Count]event.Descriptor
	Rows    []pageRow
}

type pageRow struct {
	Rank  int
	Name  string
	Total int
	Cells []pageCell
}

type pageCell struct {
	Text    string
	Default bool
}

// HTML writes board as a standalone page titled title.
func HTML(w io.Writer, title string, board *sor.Board) error {
	data := pageData{
		Title:   title,
		Headers: event.All(),
		Rows:    make([]pageRow, len(board.Standings)),
	}
	for i, st := range board.Standings {
		cells := make([]pageCell, len(st.Cells))
		for j, c := range st.Cells {
			cells[j] = pageCell{Text: cellText(c), Default: c.Kind == sor.Default}
		}
		data.Rows[i] = pageRow{Rank: st.Rank, Name: st.Competitor.Name(), Total: st.Total, Cells: cells}
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
