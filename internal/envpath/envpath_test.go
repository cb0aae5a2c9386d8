package envpath

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

type mapStore struct {
	values map[string]string
	sets   int
	setErr error
}

func (s *mapStore) Get(name string) (string, error) { return s.values[name], nil }

func (s *mapStore) Set(name, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	s.values[name] = value
	return nil
}

func TestAppend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		value       string
		segment     string
		sep         string
		fold        bool
		want        string
		wantChanged bool
	}{
		{"empty value", "", `C:\MinGW\bin`, ";", true, `C:\MinGW\bin`, true},
		{"append", `C:\Windows`, `C:\MinGW\bin`, ";", true, `C:\Windows;C:\MinGW\bin`, true},
		{"trailing separator", `C:\Windows;`, `C:\MinGW\bin`, ";", true, `C:\Windows;C:\MinGW\bin`, true},
		{"already present", `C:\Windows;C:\MinGW\bin`, `C:\MinGW\bin`, ";", true, `C:\Windows;C:\MinGW\bin`, false},
		{"present with other case on windows", `c:\mingw\BIN;C:\Windows`, `C:\MinGW\bin`, ";", true, `c:\mingw\BIN;C:\Windows`, false},
		{"present with trailing backslash", `C:\MinGW\bin\`, `C:\MinGW\bin`, ";", true, `C:\MinGW\bin\`, false},
		{"case sensitive on unix", "/usr/bin:/OPT/bin", "/opt/bin", ":", false, "/usr/bin:/OPT/bin:/opt/bin", true},
		{"substring is not a match", "/usr/local/bin2", "/usr/local/bin", ":", false, "/usr/local/bin2:/usr/local/bin", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, changed := Append(tt.value, tt.segment, tt.sep, tt.fold)
			if got != tt.want || changed != tt.wantChanged {
				t.Errorf("Append(%q, %q) = (%q, %v), want (%q, %v)", tt.value, tt.segment, got, changed, tt.want, tt.wantChanged)
			}
		})
	}
}

func countEntries(value, segment, sep string) int {
	n := 0
	for _, e := range strings.Split(value, sep) {
		if e == segment {
			n++
		}
	}
	return n
}

func randomEntry(r *rand.Rand) string {
	const alphabet = `abcXYZ019_-.\/ `
	b := make([]byte, 1+r.IntN(12))
	for i := range b {
		b[i] = alphabet[r.IntN(len(alphabet))]
	}
	return string(b)
}

func TestAppend_TwiceYieldsSingleOccurrence(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 1000; i++ {
		segment := strings.TrimSpace(randomEntry(r))
		if normalize(segment) == "" {
			continue
		}
		var entries []string
		for j := r.IntN(6); j > 0; j-- {
			e := randomEntry(r)
			if normalize(e) == normalize(segment) {
				continue
			}
			entries = append(entries, e)
		}
		initial := strings.Join(entries, ";")

		once, _ := Append(initial, segment, ";", false)
		twice, changed := Append(once, segment, ";", false)

		if changed {
			t.Fatalf("second append changed %q -> %q (segment %q)", once, twice, segment)
		}
		if n := countEntries(twice, segment, ";"); n != 1 {
			t.Fatalf("segment %q appears %d times in %q (initial %q)", segment, n, twice, initial)
		}
	}
}

func TestConfigurator_Idempotent(t *testing.T) {
	t.Parallel()
	store := &mapStore{values: map[string]string{"Path": `C:\Windows`}}
	c := NewConfigurator(store, "Path").WithSeparator(";", true)

	first, err := c.AppendToPath(`C:\MinGW\bin`)
	if err != nil {
		t.Fatalf("first append: %v", err)
	}
	if !first.Changed() {
		t.Fatal("first append should change the value")
	}
	second, err := c.AppendToPath(`C:\MinGW\bin`)
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if second.Changed() {
		t.Fatal("second append should be a no-op")
	}
	if store.sets != 1 {
		t.Errorf("store written %d times, want 1", store.sets)
	}
	if got := store.values["Path"]; got != `C:\Windows;C:\MinGW\bin` {
		t.Errorf("Path = %q", got)
	}
}

func TestConfigurator_EmptySegment(t *testing.T) {
	t.Parallel()
	c := NewConfigurator(&mapStore{values: map[string]string{}}, "PATH")

	if _, err := c.AppendToPath("  "); !errors.Is(err, ErrEmptySegment) {
		t.Fatalf("err = %v, want ErrEmptySegment", err)
	}
}

func TestConfigurator_StoreWriteFailure(t *testing.T) {
	t.Parallel()
	readOnly := afero.NewReadOnlyFs(afero.NewMemMapFs())
	c := NewConfigurator(NewFileStore(readOnly, "/etc/environment"), "PATH").WithSeparator(":", false)

	m, err := c.AppendToPath("/opt/mingw/bin")

	var storeErr *StoreError
	if !errors.As(err, &storeErr) || storeErr.Op != "write" {
		t.Fatalf("err = %v, want write StoreError", err)
	}
	if m.Changed() {
		t.Error("failed write must not report a change")
	}
}

func TestFileStore_RoundTripPreservesOtherLines(t *testing.T) {
	t.Parallel()
	fsys := afero.NewMemMapFs()
	const original = "# system wide\nLANG=en_US.UTF-8\nPATH=\"/usr/bin:/bin\"\n"
	if err := afero.WriteFile(fsys, "/etc/environment", []byte(original), 0644); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(fsys, "/etc/environment")

	got, err := store.Get("PATH")
	if err != nil || got != "/usr/bin:/bin" {
		t.Fatalf("Get = (%q, %v)", got, err)
	}
	if err := store.Set("PATH", "/usr/bin:/bin:/opt/mingw/bin"); err != nil {
		t.Fatal(err)
	}

	data, _ := afero.ReadFile(fsys, "/etc/environment")
	want := "# system wide\nLANG=en_US.UTF-8\nPATH=\"/usr/bin:/bin:/opt/mingw/bin\"\n"
	if string(data) != want {
		t.Errorf("file =\n%s\nwant\n%s", data, want)
	}
}

func TestFileStore_MissingFileIsUnset(t *testing.T) {
	t.Parallel()
	fsys := afero.NewMemMapFs()
	store := NewFileStore(fsys, "/etc/environment")

	got, err := store.Get("PATH")
	if err != nil || got != "" {
		t.Fatalf("Get on missing file = (%q, %v), want empty", got, err)
	}
	if err := store.Set("PATH", "/opt/bin"); err != nil {
		t.Fatal(err)
	}
	data, _ := afero.ReadFile(fsys, "/etc/environment")
	if string(data) != "PATH=\"/opt/bin\"\n" {
		t.Errorf("file = %q", data)
	}
}
