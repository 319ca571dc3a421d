package wcaexport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// descriptor is the JSON document published at the export API URL.
type descriptor struct {
	ExportDate string `json:"export_date"`
	TSVURL     string `json:"tsv_url"`
}

// Download fetches the TSV export archive announced at apiURL and stores it
// at dest. The archive is written to a temporary file next to dest and
// renamed into place, so dest is either the old or the complete new archive.
// It returns the number of bytes written.
func Download(ctx context.Context, client *http.Client, apiURL, dest string) (int64, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var d descriptor
	if err := getJSON(ctx, client, apiURL, &d); err != nil {
		return 0, err
	}
	if d.TSVURL == "" {
		return 0, ErrNoExport
	}

	body, err := get(ctx, client, d.TSVURL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".export-*.zip")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, body)
	if err != nil {
		_ = tmp.Close()
		return n, fmt.Errorf("download %s: %w", d.TSVURL, err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return n, fmt.Errorf("move export into place: %w", err)
	}
	return n, nil
}

func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: get %s: %s", ErrUnexpectedStatus, url, resp.Status)
	}
	return resp.Body, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	body, err := get(ctx, client, url)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
