package plugin

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// manifestFile is the optional metadata file in every plugin directory.
const manifestFile = "plugin.json"

// Manifest describes one plugin directory. Every field is optional in
// the file; Name defaults to the directory name and Main to init.lua.
type Manifest struct {
	Name    string
	Version string
	Main    string
}

// loadManifest reads dir's plugin.json. A missing file yields the
// defaults, a malformed one an error.
func loadManifest(dir string) (Manifest, error) {
	m := Manifest{Name: filepath.Base(dir), Main: "init.lua"}

	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, fmt.Errorf("reading %s: %w", manifestFile, err)
	}
	if !gjson.ValidBytes(data) {
		return m, fmt.Errorf("%s is not valid JSON", manifestFile)
	}

	if v := gjson.GetBytes(data, "name"); v.String() != "" {
		m.Name = v.String()
	}
	if v := gjson.GetBytes(data, "version"); v.Exists() {
		m.Version = v.String()
	}
	if v := gjson.GetBytes(data, "main"); v.String() != "" {
		m.Main = v.String()
	}
	return m, nil
}
