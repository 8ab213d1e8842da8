package api

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRunnerConfig(t *testing.T) {

	t.Run("ReturnsAllEnabledTargetsInLexicalOrderWhenNoNamesPassed", func(t *testing.T) {

		projectDir := t.TempDir()

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir})

		assert.Nil(t, err)
		assert.Equal(t, 2, len(config.Targets))
		assert.Equal(t, "linux-musl", config.Targets[0].ID)
		assert.Equal(t, "redos", config.Targets[1].ID)
	})

	t.Run("ReturnsErrConfigForUnknownTargetName", func(t *testing.T) {

		projectDir := t.TempDir()

		// act
		_, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir, TargetNames: []string{"win32"}})

		assert.True(t, errors.Is(err, ErrConfig))
		assert.Contains(t, err.Error(), "win32")
	})

	t.Run("ReturnsErrConfigWhenImageOverrideSelectsMultipleTargets", func(t *testing.T) {

		projectDir := t.TempDir()

		// act
		_, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir, ImageOverride: "ubuntu:24.04"})

		assert.True(t, errors.Is(err, ErrConfig))
	})

	t.Run("AppliesImageOverrideToSingleSelectedTarget", func(t *testing.T) {

		projectDir := t.TempDir()

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir, TargetNames: []string{"redos"}, ImageOverride: "registry.red-soft.ru/ubi7/ubi"})

		assert.Nil(t, err)
		assert.Equal(t, 1, len(config.Targets))
		assert.Equal(t, "registry.red-soft.ru/ubi7/ubi", config.Targets[0].Image)
	})

	t.Run("DefaultsToolchainToStable", func(t *testing.T) {

		projectDir := t.TempDir()

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir, TargetNames: []string{"linux-musl"}})

		assert.Nil(t, err)
		assert.Equal(t, "stable", config.Targets[0].Toolchain)
	})

	t.Run("ToolchainFlagOverridesConfigFileToolchain", func(t *testing.T) {

		projectDir := t.TempDir()
		configFile := []byte(`targets:
  redos:
    image: registry.red-soft.ru/ubi8/ubi
    toolchain: 1.70.0
`)
		err := ioutil.WriteFile(filepath.Join(projectDir, ConfigFilename), configFile, 0600)
		assert.Nil(t, err)

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir, TargetNames: []string{"redos"}, Toolchain: "nightly"})

		assert.Nil(t, err)
		assert.Equal(t, "nightly", config.Targets[0].Toolchain)
	})

	t.Run("KeepsConfigFileToolchainWithoutFlag", func(t *testing.T) {

		projectDir := t.TempDir()
		configFile := []byte(`targets:
  redos:
    image: registry.red-soft.ru/ubi8/ubi
    toolchain: 1.70.0
`)
		err := ioutil.WriteFile(filepath.Join(projectDir, ConfigFilename), configFile, 0600)
		assert.Nil(t, err)

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir, TargetNames: []string{"redos"}})

		assert.Nil(t, err)
		assert.Equal(t, "1.70.0", config.Targets[0].Toolchain)
	})

	t.Run("ConfigFileTargetOverridesBuiltinWithSameID", func(t *testing.T) {

		projectDir := t.TempDir()
		configFile := []byte(`targets:
  linux-musl:
    image: alpine:3.18
    suffix: musl-static
`)
		err := ioutil.WriteFile(filepath.Join(projectDir, ConfigFilename), configFile, 0600)
		assert.Nil(t, err)

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir, TargetNames: []string{"linux-musl"}})

		assert.Nil(t, err)
		assert.Equal(t, "alpine:3.18", config.Targets[0].Image)
		assert.Equal(t, "musl-static", config.Targets[0].Suffix)
	})

	t.Run("DefaultsSuffixToTargetID", func(t *testing.T) {

		projectDir := t.TempDir()
		configFile := []byte(`targets:
  freebsd:
    image: dougrabson/freebsd14-small
`)
		err := ioutil.WriteFile(filepath.Join(projectDir, ConfigFilename), configFile, 0600)
		assert.Nil(t, err)

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir, TargetNames: []string{"freebsd"}})

		assert.Nil(t, err)
		assert.Equal(t, "freebsd", config.Targets[0].Suffix)
	})

	t.Run("DefaultsIncludeListWhenConfigFileAbsent", func(t *testing.T) {

		projectDir := t.TempDir()

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir})

		assert.Nil(t, err)
		assert.Equal(t, []string{"README.md", "LICENSE"}, config.Include)
	})

	t.Run("SetsStrictForSingleTargetRun", func(t *testing.T) {

		projectDir := t.TempDir()

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir, TargetNames: []string{"redos"}})

		assert.Nil(t, err)
		assert.True(t, config.Strict)
	})

	t.Run("LeavesStrictUnsetForBatchRun", func(t *testing.T) {

		projectDir := t.TempDir()

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir})

		assert.Nil(t, err)
		assert.False(t, config.Strict)
	})

	t.Run("ReturnsErrConfigWhenProjectDirMissing", func(t *testing.T) {

		// act
		_, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: "/nonexisting/project"})

		assert.True(t, errors.Is(err, ErrConfig))
	})

	t.Run("ReturnsErrConfigForMalformedConfigFile", func(t *testing.T) {

		projectDir := t.TempDir()
		err := ioutil.WriteFile(filepath.Join(projectDir, ConfigFilename), []byte("targets: [not: a: map"), 0600)
		assert.Nil(t, err)

		// act
		_, err = ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir})

		assert.True(t, errors.Is(err, ErrConfig))
	})

	t.Run("ReturnsErrConfigForUnknownConfigFileKey", func(t *testing.T) {

		projectDir := t.TempDir()
		err := ioutil.WriteFile(filepath.Join(projectDir, ConfigFilename), []byte("tragets: {}"), 0600)
		assert.Nil(t, err)

		// act
		_, err = ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir})

		assert.True(t, errors.Is(err, ErrConfig))
	})

	t.Run("SkipsDisabledTargetInDefaultSelection", func(t *testing.T) {

		projectDir := t.TempDir()
		configFile := []byte(`targets:
  nightly-experiment:
    image: ubuntu:22.04
    enabled: false
`)
		err := ioutil.WriteFile(filepath.Join(projectDir, ConfigFilename), configFile, 0600)
		assert.Nil(t, err)

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir})

		assert.Nil(t, err)
		for _, target := range config.Targets {
			assert.NotEqual(t, "nightly-experiment", target.ID)
		}
	})

	t.Run("RunsDisabledTargetWhenExplicitlySelected", func(t *testing.T) {

		projectDir := t.TempDir()
		configFile := []byte(`targets:
  nightly-experiment:
    image: ubuntu:22.04
    enabled: false
`)
		err := ioutil.WriteFile(filepath.Join(projectDir, ConfigFilename), configFile, 0600)
		assert.Nil(t, err)

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir, TargetNames: []string{"nightly-experiment"}})

		assert.Nil(t, err)
		assert.Equal(t, 1, len(config.Targets))
		assert.Equal(t, "nightly-experiment", config.Targets[0].ID)
	})

	t.Run("DeduplicatesRepeatedTargetNames", func(t *testing.T) {

		projectDir := t.TempDir()

		// act
		config, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir, TargetNames: []string{"redos", "redos"}})

		assert.Nil(t, err)
		assert.Equal(t, 1, len(config.Targets))
	})

	t.Run("ReturnsErrConfigForNegativeBuildTimeout", func(t *testing.T) {

		projectDir := t.TempDir()

		// act
		_, err := ResolveRunnerConfig(RunnerConfigOptions{ProjectDir: projectDir, BuildTimeout: -1})

		assert.True(t, errors.Is(err, ErrConfig))
	})
}

func TestGetRegistryCredentials(t *testing.T) {

	t.Run("MatchesImageByServerPrefix", func(t *testing.T) {

		config := RunnerConfig{
			Registries: []*ContainerRegistryCredentials{
				{Server: "registry.red-soft.ru", Username: "builder", Password: "topsecret"},
			},
		}

		// act
		credentials := config.GetRegistryCredentials("registry.red-soft.ru/ubi8/ubi")

		assert.NotNil(t, credentials)
		assert.Equal(t, "builder", credentials.Username)
	})

	t.Run("ReturnsNilForPublicImage", func(t *testing.T) {

		config := RunnerConfig{
			Registries: []*ContainerRegistryCredentials{
				{Server: "registry.red-soft.ru", Username: "builder", Password: "topsecret"},
			},
		}

		// act
		credentials := config.GetRegistryCredentials("ubuntu:22.04")

		assert.Nil(t, credentials)
	})

	t.Run("DoesNotMatchServerNamePrefixWithoutPathSeparator", func(t *testing.T) {

		config := RunnerConfig{
			Registries: []*ContainerRegistryCredentials{
				{Server: "registry.red-soft.ru", Username: "builder", Password: "topsecret"},
			},
		}

		// act
		credentials := config.GetRegistryCredentials("registry.red-soft.ru.evil.com/ubi8/ubi")

		assert.Nil(t, credentials)
	})
}
