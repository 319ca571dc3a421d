package synth

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/okian/sor/internal/adapters/wcaexport"
)

var (
	competitionHeader = []string{"id", "name", "cityName", "countryId"}
	resultHeader      = []string{"competitionId", "eventId", "roundTypeId", "pos", "best", "average", "personName", "personId"}
)

// Write generates an export for c at path. Paths ending in .zip get an
// archive, anything else a directory of TSV tables.
func Write(ctx context.Context, path string, c Config) (Stats, error) {
	d, err := Generate(ctx, c)
	if err != nil {
		return Stats{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		err = d.WriteZip(path)
	} else {
		err = d.WriteDir(path)
	}
	return d.Stats, err
}

// WriteDir writes the dataset as TSV tables into dir.
func (d *Dataset) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	return d.writeTables(func(name string, fill func(io.Writer) error) error {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := fill(f); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	})
}

// WriteZip writes the dataset as a zip archive at path.
func (d *Dataset) WriteZip(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)
	err = d.writeTables(func(name string, fill func(io.Writer) error) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		return fill(w)
	})
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (d *Dataset) writeTables(open func(name string, fill func(io.Writer) error) error) error {
	err := open(wcaexport.TableCompetitions, func(w io.Writer) error {
		return writeTSV(w, competitionHeader, len(d.Competitions), func(i int) []string {
			c := d.Competitions[i]
			return []string{c.ID, c.Name, c.CityName, c.CountryID}
		})
	})
	if err != nil {
		return fmt.Errorf("write competitions: %w", err)
	}

	pos := make(map[[2]string]int)
	err = open(wcaexport.TableResults, func(w io.Writer) error {
		return writeTSV(w, resultHeader, len(d.Results), func(i int) []string {
			r := d.Results[i]
			key := [2]string{r.CompetitionID, r.EventCode}
			pos[key]++
			return []string{r.CompetitionID, r.EventCode, "f", strconv.Itoa(pos[key]), r.Best, r.Average, r.CompetitorName, r.CompetitorID}
		})
	})
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

func writeTSV(w io.Writer, header []string, n int, row func(int) []string) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range n {
		if err := cw.Write(row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
