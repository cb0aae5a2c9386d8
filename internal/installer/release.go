package installer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"setup-cpp/internal/logger"
)

// DefaultGitHubAPI is the public GitHub REST endpoint.
const DefaultGitHubAPI = "https://api.github.com"

// ErrNoMatchingAsset means the release has no archive whose name contains the wanted pattern.
var ErrNoMatchingAsset = errors.New("no matching release asset")

// ReleaseQuery selects one asset of a GitHub release.
// - Repo: "owner/name", e.g. "niXman/mingw-builds-binaries".
// - Tag: release tag; empty means the latest release.
// - Asset: case-insensitive substring the asset file name must contain.
type ReleaseQuery struct {
	Repo  string
	Tag   string
	Asset string
}

// Asset is a downloadable file of a release.
type Asset struct {
	Name string `json:"name"`                 // Asset filename
	URL  string `json:"browser_download_url"` // Direct download URL for the asset
}

// gitHubRelease is the part of the GitHub release JSON we read.
type gitHubRelease struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// ReleaseResolver looks up toolchain archives on GitHub Releases.
type ReleaseResolver struct {
	Client  *http.Client
	BaseURL string
}

// NewReleaseResolver creates a resolver against the public GitHub API.
// A nil client means http.DefaultClient.
func NewReleaseResolver(client *http.Client) *ReleaseResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &ReleaseResolver{Client: client, BaseURL: DefaultGitHubAPI}
}

// Resolve fetches the release metadata and returns the first archive asset
// whose name contains q.Asset.
func (r *ReleaseResolver) Resolve(ctx context.Context, q ReleaseQuery) (Asset, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(r.BaseURL, "/"), q.Repo)
	if q.Tag != "" {
		url = fmt.Sprintf("%s/repos/%s/releases/tags/%s", strings.TrimRight(r.BaseURL, "/"), q.Repo, q.Tag)
	}
	logger.Debug("[DEBUG] Fetching GitHub release from URL: %s\n", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to build release request for %s: %w", q.Repo, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return Asset{}, fmt.Errorf("HTTP GET error fetching release for %s: %w", q.Repo, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return Asset{}, fmt.Errorf("GitHub release fetch failed for %s: HTTP status %d", q.Repo, resp.StatusCode)
	}

	var release gitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return Asset{}, fmt.Errorf("failed to decode GitHub release JSON for %s: %w", q.Repo, err)
	}
	logger.Debug("[DEBUG] Release tag: %s with %d assets\n", release.TagName, len(release.Assets))

	pattern := strings.ToLower(q.Asset)
	for _, asset := range release.Assets {
		if strings.Contains(strings.ToLower(asset.Name), pattern) && IsArchive(asset.Name) {
			logger.Debug("[DEBUG] Found matching asset: %s\n", asset.Name)
			return asset, nil
		}
	}
	return Asset{}, fmt.Errorf("%w: %q in %s@%s", ErrNoMatchingAsset, q.Asset, q.Repo, release.TagName)
}
