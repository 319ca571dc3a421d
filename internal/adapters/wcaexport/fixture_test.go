package wcaexport_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

const competitionsTSV = `id	name	cityName	countryId
PerthOpen2023	Perth Open 2023	Perth, Western Australia	Australia
WAChamps2024	WA Championship 2024	Perth, Western Australia	Australia
MelbOpen2023	Melbourne Open 2023	Melbourne, Victoria	Australia
`

const resultsTSV = `competitionId	eventId	roundTypeId	pos	best	average	personName	personId
PerthOpen2023	333	f	1	900	1000	Alice	2015ALIC01
PerthOpen2023	333	f	2	1000	1100	Bob	2016BOBB01
MelbOpen2023	333	f	1	800	900	Bob	2016BOBB01
MelbOpen2023	222	f	1	300	400	Bob	2016BOBB01
WAChamps2024	222	f	1	250	300	Alice	2015ALIC01
MelbOpen2023	333	f	3	1200	1300	Carol	2010CARO01
broken
WAChamps2024	333	f	3	1500	1600	Dave	2019DAVE01
MelbOpen2023	333	f	4	1600	1700	Dave	2019DAVE01
`

func writeExportDir(t *testing.T, tables map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range tables {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func writeExportZip(t *testing.T, tables map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, body := range tables {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func defaultTables() map[string]string {
	return map[string]string{
		"WCA_export_Competitions.tsv": competitionsTSV,
		"WCA_export_Results.tsv":      resultsTSV,
		"README.md":                   strings.Repeat("x", 10),
	}
}
