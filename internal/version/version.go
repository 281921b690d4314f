package version

import (
	"encoding/json"
	"log"
	"os"
)

// DefaultFile is where the release pipeline drops the version
// manifest, relative to the server's working directory.
const DefaultFile = "version.json"

const fallback = "0.0.0"

// Info describes the running build.
type Info struct {
	Version string `json:"version"`
}

func (i Info) String() string { return "cinedex " + i.Version }

// Load reads the version manifest at path, or DefaultFile when path is
// empty. A missing or malformed manifest is logged and reported as the
// fallback version so the server can still boot.
func Load(path string) Info {
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("version: no manifest at %s, reporting %s: %v", path, fallback, err)
		return Info{Version: fallback}
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		log.Printf("version: malformed manifest %s, reporting %s: %v", path, fallback, err)
		return Info{Version: fallback}
	}
	if info.Version == "" {
		info.Version = fallback
	}
	return info
}
