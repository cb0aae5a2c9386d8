package templates

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
)

func TestDefaults_FourValidJSONFiles(t *testing.T) {
	t.Parallel()

	table := Defaults()
	want := []string{"c_cpp_properties.json", "tasks.json", "launch.json", "settings.json"}
	names := table.Names()
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
		var v map[string]any
		if err := json.Unmarshal(table[i].Payload, &v); err != nil {
			t.Errorf("%s is not valid JSON: %v", table[i].Name, err)
		}
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()
	fsys := afero.NewMemMapFs()
	_ = afero.WriteFile(fsys, "/cfg/settings.json", []byte(`{"editor.tabSize": 2}`), 0644)
	_ = afero.WriteFile(fsys, "/cfg/extensions.json", []byte(`{"recommendations": []}`), 0644)

	table, err := Load(fsys, map[string]string{
		"settings.json":   "/cfg/settings.json",
		"extensions.json": "/cfg/extensions.json",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, _ := table.Lookup("settings.json"); string(got) != `{"editor.tabSize": 2}` {
		t.Errorf("settings.json = %s", got)
	}
	if len(table) != 5 || table[4].Name != "extensions.json" {
		t.Errorf("extra file not appended: %v", table.Names())
	}
	if orig, _ := Defaults().Lookup("settings.json"); string(orig) == `{"editor.tabSize": 2}` {
		t.Error("override leaked into the defaults")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	fsys := afero.NewMemMapFs()

	if _, err := Load(fsys, map[string]string{"tasks.json": "/missing.json"}); err == nil {
		t.Error("expected an error for a missing override file")
	}
	if _, err := Load(fsys, map[string]string{"../escape.json": "/x"}); err == nil {
		t.Error("expected an error for a name with a path component")
	}
}
