package api

import "errors"

var (
	// ErrConfig indicates invalid flags, config file contents or target selection;
	// nothing has been launched when it is returned.
	ErrConfig = errors.New("invalid configuration")

	// ErrManifestFieldMissing indicates the project manifest lacks a field the
	// release identity needs.
	ErrManifestFieldMissing = errors.New("manifest field missing")

	// ErrEnvironmentLaunch indicates the isolated build environment could not be
	// acquired or started.
	ErrEnvironmentLaunch = errors.New("build environment launch failed")

	// ErrToolchainInstall indicates prerequisite or toolchain installation failed
	// inside the build environment.
	ErrToolchainInstall = errors.New("toolchain install failed")

	// ErrCompile indicates the release compilation itself failed.
	ErrCompile = errors.New("compilation failed")

	// ErrArtifactMissing indicates a session reported success but the expected
	// binary never appeared at the agreed host path.
	ErrArtifactMissing = errors.New("build artifact missing")

	// ErrArtifactNotFound indicates a file named for packaging does not exist on
	// the host.
	ErrArtifactNotFound = errors.New("archive member not found")

	// ErrCanceled indicates the run was interrupted and the build did not get to
	// finish on its own.
	ErrCanceled = errors.New("build canceled")
)
