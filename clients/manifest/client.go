package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/cratebuild/cratebuild/api"
)

// Filename is the manifest expected at the project root.
const Filename = "Cargo.toml"

// Client reads the release identity from the project manifest
//go:generate mockgen -package=manifest -destination ./mock.go -source=client.go
type Client interface {
	Read(projectDir string) (info api.ReleaseManifestInfo, err error)
}

// NewClient returns a new manifest.Client
func NewClient() (Client, error) {
	return &client{}, nil
}

type client struct {
}

// cargoManifest maps only the top-level [package] table; workspace tables and
// name/version keys in other sections are not release identity.
type cargoManifest struct {
	Package cargoPackage `toml:"package"`
}

type cargoPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

func (c *client) Read(projectDir string) (info api.ReleaseManifestInfo, err error) {

	path := filepath.Join(projectDir, Filename)

	var parsed cargoManifest
	if _, err = toml.DecodeFile(path, &parsed); err != nil {
		return info, fmt.Errorf("%w: reading manifest %v: %v", api.ErrConfig, path, err)
	}

	info.Name = parsed.Package.Name
	if info.Name == "" {
		info.Name = filepath.Base(projectDir)
	}

	info.Version = parsed.Package.Version
	if info.Version == "" {
		return info, fmt.Errorf("%w: manifest %v has no package version", api.ErrManifestFieldMissing, path)
	}

	return info, nil
}
