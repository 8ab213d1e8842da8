package api

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v2"
)

const (
	// ConfigFilename is the optional per-project config file, read from the
	// project root.
	ConfigFilename = ".cratebuild.yaml"

	defaultToolchain = "stable"
)

// DefaultInclude lists the auxiliary files packaged next to the binary when the
// config file does not set its own include list; absent files are skipped.
var DefaultInclude = []string{"README.md", "LICENSE"}

// RunnerConfig is the fully resolved configuration for one run. It is assembled
// once at startup from flags, environment variables and the optional config
// file, and handed to the services read-only.
type RunnerConfig struct {
	ProjectDir   string
	Targets      []BuildTarget
	Include      []string
	Registries   []*ContainerRegistryCredentials
	Parallel     bool
	Strict       bool
	BuildTimeout time.Duration
}

// ContainerRegistryCredentials holds credentials for a private container registry.
type ContainerRegistryCredentials struct {
	Server   string `yaml:"server"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GetRegistryCredentials returns the credentials whose server matches the image
// reference, or nil when the image is pulled anonymously.
func (c *RunnerConfig) GetRegistryCredentials(image string) *ContainerRegistryCredentials {
	for _, r := range c.Registries {
		if r == nil || r.Server == "" {
			continue
		}
		if strings.HasPrefix(image, r.Server+"/") {
			return r
		}
	}

	return nil
}

// ConfigFile models the optional .cratebuild.yaml at the project root.
type ConfigFile struct {
	Targets    map[string]BuildTarget          `yaml:"targets"`
	Include    []string                        `yaml:"include"`
	Registries []*ContainerRegistryCredentials `yaml:"registries"`
}

// RunnerConfigOptions carries the raw CLI and environment inputs collected in
// main before resolution.
type RunnerConfigOptions struct {
	ProjectDir    string
	TargetNames   []string
	ImageOverride string
	Toolchain     string
	Parallel      bool
	Strict        bool
	BuildTimeout  time.Duration
}

// DefaultTargets returns the built-in target definitions; config file entries
// with the same id override them.
func DefaultTargets() map[string]BuildTarget {
	return map[string]BuildTarget{
		"linux-musl": {
			Image:         "ubuntu:22.04",
			RustTarget:    "x86_64-unknown-linux-musl",
			ExtraPackages: []string{"musl-tools"},
			Suffix:        "linux-musl",
		},
		"redos": {
			Image:  "registry.red-soft.ru/ubi8/ubi",
			Suffix: "redos",
		},
	}
}

// ResolveRunnerConfig validates the raw options against the built-in targets and
// the optional config file and returns the effective configuration. It fails
// before anything has been pulled or launched.
func ResolveRunnerConfig(opts RunnerConfigOptions) (*RunnerConfig, error) {

	projectDir, err := filepath.Abs(opts.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving project dir %v: %v", ErrConfig, opts.ProjectDir, err)
	}
	if info, err := os.Stat(projectDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: project dir %v does not exist", ErrConfig, projectDir)
	}

	if opts.BuildTimeout < 0 {
		return nil, fmt.Errorf("%w: build timeout cannot be negative", ErrConfig)
	}

	configFile, err := readConfigFile(filepath.Join(projectDir, ConfigFilename))
	if err != nil {
		return nil, err
	}

	definitions := DefaultTargets()
	for id, t := range configFile.Targets {
		t.ID = id
		definitions[id] = t
	}

	targets, err := selectTargets(definitions, opts.TargetNames)
	if err != nil {
		return nil, err
	}

	if opts.ImageOverride != "" && len(targets) != 1 {
		return nil, fmt.Errorf("%w: image override %v requires exactly one selected target, got %v", ErrConfig, opts.ImageOverride, len(targets))
	}

	for i := range targets {
		if opts.ImageOverride != "" {
			targets[i].Image = opts.ImageOverride
		}
		if opts.Toolchain != "" {
			targets[i].Toolchain = opts.Toolchain
		}
		if targets[i].Toolchain == "" {
			targets[i].Toolchain = defaultToolchain
		}
		if targets[i].Suffix == "" {
			targets[i].Suffix = targets[i].ID
		}
		if targets[i].Image == "" {
			return nil, fmt.Errorf("%w: target %v has no image", ErrConfig, targets[i].ID)
		}
	}

	include := configFile.Include
	if include == nil {
		include = DefaultInclude
	}

	return &RunnerConfig{
		ProjectDir:   projectDir,
		Targets:      targets,
		Include:      include,
		Registries:   configFile.Registries,
		Parallel:     opts.Parallel,
		Strict:       opts.Strict || len(targets) == 1,
		BuildTimeout: opts.BuildTimeout,
	}, nil
}

func readConfigFile(path string) (*ConfigFile, error) {

	var configFile ConfigFile
	exists, err := pathExists(path)
	if err != nil {
		return nil, fmt.Errorf("%w: checking %v: %v", ErrConfig, path, err)
	}
	if !exists {
		return &configFile, nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %v: %v", ErrConfig, path, err)
	}
	if err := yaml.UnmarshalStrict(data, &configFile); err != nil {
		return nil, fmt.Errorf("%w: parsing %v: %v", ErrConfig, path, err)
	}

	return &configFile, nil
}

// selectTargets picks the requested target definitions by id, or all enabled
// definitions in lexical id order when no names are passed. Unknown names fail
// the whole run.
func selectTargets(definitions map[string]BuildTarget, names []string) (targets []BuildTarget, err error) {

	if len(names) == 0 {
		ids := make([]string, 0, len(definitions))
		for id := range definitions {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			t := definitions[id]
			t.ID = id
			if t.IsEnabled() {
				targets = append(targets, t)
			}
		}
		return targets, nil
	}

	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		t, known := definitions[name]
		if !known {
			return nil, fmt.Errorf("%w: unknown target %v", ErrConfig, name)
		}
		t.ID = name
		targets = append(targets, t)
	}

	return targets, nil
}
