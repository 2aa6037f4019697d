// Package dataset locates the audio files a benchmark run works through
// and can fetch a small public sample set for first runs.
package dataset

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// SampleArchiveURL points at a small openslr.org speech sample set. It is
// fetched only when the dataset directory does not exist yet.
const SampleArchiveURL = "https://www.openslr.org/resources/81/samples.tar.gz"

// List returns the files directly under dir whose extension is in exts,
// sorted by name. Subdirectories are not descended into.
func List(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if lo.Contains(exts, ext) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Bootstrap makes sure dir exists, downloading and unpacking the sample
// archive when it does not. An existing dir is left untouched.
func Bootstrap(ctx context.Context, dir string, log *slog.Logger) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat dataset dir: %w", err)
	}

	log.InfoContext(ctx, "dataset dir missing, downloading samples",
		"dir", dir, "url", SampleArchiveURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, SampleArchiveURL, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download samples: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download samples: unexpected status %s", resp.Status)
	}
	if err := extractTarGz(resp.Body, dir); err != nil {
		return err
	}

	log.InfoContext(ctx, "sample dataset ready", "dir", dir)
	return nil
}

// extractTarGz unpacks a .tar.gz stream into dir, dropping the archive's
// root directory so the files land directly under dir.
func extractTarGz(r io.Reader, dir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		rel, err := stripArchiveRoot(hdr.Name)
		if err != nil {
			return err
		}
		if rel == "" {
			continue
		}
		if err := writeEntry(filepath.Join(dir, filepath.FromSlash(rel)), tr); err != nil {
			return err
		}
	}
}

// stripArchiveRoot removes the leading path component and rejects entries
// that would escape the extraction dir.
func stripArchiveRoot(name string) (string, error) {
	clean := path.Clean(name)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("unsafe archive entry %q", name)
	}
	_, rest, found := strings.Cut(clean, "/")
	if !found {
		return "", nil
	}
	return rest, nil
}

func writeEntry(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write dataset file: %w", err)
	}
	return f.Close()
}
