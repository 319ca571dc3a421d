package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/okian/sor/internal/adapters/render"
	"github.com/okian/sor/internal/domain/model"
	"github.com/okian/sor/pkg/logger"
	"github.com/okian/sor/pkg/metrics"
)

// Output file names.
const (
	workbookFile = "sor.xlsx"
	outputPerm   = 0o750
)

type output struct {
	name  string
	kind  string
	write func(io.Writer) error
}

// WriteOutputs renders the last report into dir and returns the written paths.
func (s *Service) WriteOutputs(ctx context.Context, dir string) ([]string, error) {
	report := s.Report()
	if report == nil {
		return nil, ErrNotBuilt
	}
	if err := os.MkdirAll(dir, outputPerm); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	outputs := []output{{
		name:  workbookFile,
		kind:  "xlsx",
		write: func(w io.Writer) error { return render.Workbook(w, report) },
	}}
	for _, m := range model.Metrics {
		board := report.Board(m)
		title := m.Title()
		outputs = append(outputs,
			output{
				name:  "sor_" + m.String() + ".html",
				kind:  "html",
				write: func(w io.Writer) error { return render.HTML(w, title, board) },
			},
			output{
				name: "sor_" + m.String() + ".png",
				kind: "png",
				write: func(w io.Writer) error {
					png, err := render.TotalsChart(board, title, s.chartTopN)
					if err != nil {
						return err
					}
					_, err = w.Write(png)
					return err
				},
			},
		)
	}

	g, gctx := errgroup.WithContext(ctx)
	paths := make([]string, len(outputs))
	for i, o := range outputs {
		paths[i] = filepath.Join(dir, o.name)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := writeFile(paths[i], o.write); err != nil {
				metrics.RecordErrorByComponent("render", o.kind)
				return fmt.Errorf("write %s: %w", o.name, err)
			}
			metrics.RecordOutput(o.kind)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "outputs written", logger.String("dir", dir), logger.Int("files", len(paths)))
	return paths, nil
}

// writeFile writes through a temp file and renames it into place.
func writeFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
