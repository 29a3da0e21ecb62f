package jmdict

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// releaseAPI lists the newest jmdict-simplified release, whose
	// assets include pre-converted JSON dictionaries.
	releaseAPI = "https://api.github.com/repos/scriptin/jmdict-simplified/releases/latest"

	// assetPrefix selects the English common-words dictionary among the
	// release assets.
	assetPrefix = "jmdict-eng-common"

	// downloadUserAgent identifies requests; the GitHub API rejects
	// clients without a User-Agent header.
	downloadUserAgent = "tangomine"

	// releaseTimeout bounds the release listing request. The asset
	// download itself runs without a client timeout because the archive
	// is tens of megabytes; cancellation goes through the context.
	releaseTimeout = 10 * time.Second
)

// Ensure makes sure a dictionary file exists at path, downloading the
// newest jmdict-simplified English release when it does not. An
// existing file is left untouched.
func Ensure(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check dictionary path: %w", err)
	}
	return Download(ctx, path)
}

// Download fetches the newest dictionary release into path, replacing
// any existing file.
func Download(ctx context.Context, path string) error {
	url, err := latestAssetURL(ctx, releaseAPI)
	if err != nil {
		return err
	}
	return fetchArchive(ctx, url, path)
}

// latestAssetURL queries the release listing at apiURL and returns the
// download URL of the English common-words JSON archive.
func latestAssetURL(ctx context.Context, apiURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build release request: %w", err)
	}
	req.Header.Set("User-Agent", downloadUserAgent)

	client := &http.Client{Timeout: releaseTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query dictionary releases: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Response body
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dictionary release query returned %s", resp.Status)
	}

	var release struct {
		Assets []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"` //nolint:tagliatelle // GitHub API field name
		} `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("failed to decode release listing: %w", err)
	}

	for _, asset := range release.Assets {
		if !strings.Contains(asset.Name, assetPrefix) {
			continue
		}
		if strings.HasSuffix(asset.Name, ".json.tgz") || strings.HasSuffix(asset.Name, ".json.gz") {
			return asset.BrowserDownloadURL, nil
		}
	}
	return "", ErrNoDictionaryAsset
}

// fetchArchive downloads a dictionary archive from url and extracts
// the inner JSON file to dest. The extraction writes to a temporary
// sibling first so a failed download never leaves a truncated
// dictionary behind.
func fetchArchive(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}
	req.Header.Set("User-Agent", downloadUserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download dictionary: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Response body
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dictionary download returned %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return fmt.Errorf("failed to create dictionary directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".jmdict-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary dictionary file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Best effort cleanup, gone after rename

	if err := extractJSON(resp.Body, tmp, strings.HasSuffix(url, ".tgz")); err != nil {
		_ = tmp.Close() //nolint:errcheck // Already failing
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to finish dictionary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to move dictionary into place: %w", err)
	}
	return nil
}

// extractJSON gunzips the archive stream and copies the dictionary
// JSON into w. Release archives are tarballs holding a single .json
// member; bare .gz assets gunzip straight to JSON.
func extractJSON(r io.Reader, w io.Writer, tarball bool) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to decompress dictionary archive: %w", err)
	}
	defer gz.Close() //nolint:errcheck // Read-only stream

	if !tarball {
		if _, err := io.Copy(w, gz); err != nil { //nolint:gosec // Trusted release asset, written to one file
			return fmt.Errorf("failed to extract dictionary: %w", err)
		}
		return nil
	}

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read dictionary archive: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !strings.HasSuffix(header.Name, ".json") {
			continue
		}
		if _, err := io.Copy(w, tr); err != nil { //nolint:gosec // Trusted release asset, written to one file
			return fmt.Errorf("failed to extract dictionary: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: no json member in archive", ErrNoDictionaryAsset)
}
