package installer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const releaseJSON = `{
  "tag_name": "14.2.0-rt_v12-rev0",
  "assets": [
    {"name": "i686-14.2.0-release-posix-dwarf-ucrt-rt_v12-rev0.7z", "browser_download_url": "https://example.test/i686.7z"},
    {"name": "x86_64-14.2.0-release-posix-seh-ucrt-rt_v12-rev0.7z.sha256", "browser_download_url": "https://example.test/x86_64.sha256"},
    {"name": "x86_64-14.2.0-release-posix-seh-ucrt-rt_v12-rev0.7z", "browser_download_url": "https://example.test/x86_64.7z"}
  ]
}`

func newReleaseServer(t *testing.T) *ReleaseResolver {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/niXman/mingw-builds-binaries/releases/latest",
			"/repos/niXman/mingw-builds-binaries/releases/tags/14.2.0-rt_v12-rev0":
			_, _ = w.Write([]byte(releaseJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return &ReleaseResolver{Client: srv.Client(), BaseURL: srv.URL}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		q       ReleaseQuery
		want    string
		wantErr error
	}{
		{
			name: "latest skips non-archive sibling",
			q:    ReleaseQuery{Repo: "niXman/mingw-builds-binaries", Asset: "X86_64-14.2.0-release-posix-seh"},
			want: "https://example.test/x86_64.7z",
		},
		{
			name: "tagged",
			q:    ReleaseQuery{Repo: "niXman/mingw-builds-binaries", Tag: "14.2.0-rt_v12-rev0", Asset: "i686"},
			want: "https://example.test/i686.7z",
		},
		{
			name:    "no match",
			q:       ReleaseQuery{Repo: "niXman/mingw-builds-binaries", Asset: "aarch64"},
			wantErr: ErrNoMatchingAsset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newReleaseServer(t)
			got, err := r.Resolve(context.Background(), tt.q)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.URL != tt.want {
				t.Errorf("Resolve() URL = %s, want %s", got.URL, tt.want)
			}
		})
	}
}

func TestResolveUnknownRepo(t *testing.T) {
	t.Parallel()

	r := newReleaseServer(t)
	if _, err := r.Resolve(context.Background(), ReleaseQuery{Repo: "nobody/nothing", Asset: "x"}); err == nil {
		t.Fatal("Resolve() succeeded for a missing release")
	}
}
