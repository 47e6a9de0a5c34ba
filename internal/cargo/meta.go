package cargo

import "encoding/json"

// Settings a crate can carry under [package.metadata.pod] in its
// manifest: the published pod name and cargo features enabled for
// bundled builds.
type PodConfig struct {
	Name     string   `json:"name"`
	Features []string `json:"features"`
}

// Extracts the crate's pod settings. A crate without them, or with a
// malformed metadata table, yields the zero configuration.
func (p Package) PodConfig() PodConfig {
	if len(p.Metadata) == 0 {
		return PodConfig{}
	}
	var meta struct {
		Pod *PodConfig `json:"pod"`
	}
	if err := json.Unmarshal(p.Metadata, &meta); err != nil || meta.Pod == nil {
		return PodConfig{}
	}
	return *meta.Pod
}
