package api

import (
	"fmt"
	"path/filepath"
	"time"
)

// BuildTarget identifies one release flavor: the environment image it builds in
// and the identity its artifact is published under. Once a build session has
// been started for it the target is never mutated.
type BuildTarget struct {
	ID            string            `yaml:"-"`
	Image         string            `yaml:"image"`
	RustTarget    string            `yaml:"rustTarget,omitempty"`
	Toolchain     string            `yaml:"toolchain,omitempty"`
	ExtraPackages []string          `yaml:"extraPackages,omitempty"`
	Env           map[string]string `yaml:"env,omitempty"`
	Suffix        string            `yaml:"suffix,omitempty"`
	Enabled       *bool             `yaml:"enabled,omitempty"`
}

// OutputDir returns the host directory the session exports its binary into;
// every target gets its own subdirectory so concurrent sessions never collide.
func (t BuildTarget) OutputDir(workDir string) string {
	return filepath.Join(workDir, "target", t.ID)
}

// ArtifactPath returns the host path the binary is expected at after a
// successful session.
func (t BuildTarget) ArtifactPath(workDir, binaryName string) string {
	return filepath.Join(t.OutputDir(workDir), binaryName)
}

// IsEnabled indicates whether the target takes part in a run when no explicit
// selection is made; targets are enabled unless the config says otherwise.
func (t BuildTarget) IsEnabled() bool {
	return t.Enabled == nil || *t.Enabled
}

// BuildSession represents one in-flight isolated build: the target it builds,
// the mounted host directory and the host identity ownership is restored to.
// The backing container is created right before launch and removed when it
// exits, regardless of outcome.
type BuildSession struct {
	Target     BuildTarget
	WorkDir    string
	BinaryName string
	UID        int
	GID        int
}

// ArtifactDescriptor is the result of a successful build session: a binary on
// the host filesystem plus the platform suffix it is packaged under.
type ArtifactDescriptor struct {
	Path   string
	Suffix string
}

// ReleaseManifestInfo carries the package identity read once from the project
// manifest at orchestration start.
type ReleaseManifestInfo struct {
	Name    string
	Version string
}

// ArchiveSpec describes one distributable archive: its computed identity and
// the member files that go into it, binary first.
type ArchiveSpec struct {
	Name    string
	Version string
	Suffix  string
	Dir     string
	Members []string
}

// Filename returns the computed archive filename.
func (s ArchiveSpec) Filename() string {
	return fmt.Sprintf("%v-%v-%v.zip", s.Name, s.Version, s.Suffix)
}

// Path returns the absolute archive path on the host.
func (s ArchiveSpec) Path() string {
	return filepath.Join(s.Dir, s.Filename())
}

// SessionWarning records a best-effort step that degraded instead of failing
// the session, so the outcome is visible in the summary and assertable in tests.
type SessionWarning struct {
	Step    string
	Message string
}

// TargetStatus is the terminal state of a target's build-and-package flow.
type TargetStatus string

const (
	// TargetStatusSucceeded means the artifact was built and archived.
	TargetStatusSucceeded TargetStatus = "succeeded"
	// TargetStatusFailed means building or packaging the target failed.
	TargetStatusFailed TargetStatus = "failed"
	// TargetStatusCanceled means the run was aborted while the target was pending or in flight.
	TargetStatusCanceled TargetStatus = "canceled"
	// TargetStatusSkipped means a preceding failure in strict mode prevented the target from running.
	TargetStatusSkipped TargetStatus = "skipped"
)

// TargetResult aggregates everything the orchestrator needs to report about
// one target once it reached a terminal state.
type TargetResult struct {
	Target        BuildTarget
	Artifact      *ArtifactDescriptor
	ArchivePath   string
	Warnings      []SessionWarning
	ImageSize     int64
	PullDuration  time.Duration
	BuildDuration time.Duration
	Status        TargetStatus
	Err           error
}

// GetAggregatedStatus returns the overall run status for a set of target results.
func GetAggregatedStatus(results []TargetResult) TargetStatus {
	status := TargetStatusSucceeded
	for _, r := range results {
		if r.Status == TargetStatusFailed {
			return TargetStatusFailed
		}
		if r.Status == TargetStatusCanceled || r.Status == TargetStatusSkipped {
			status = r.Status
		}
	}

	return status
}

// HasSucceededStatus indicates whether every target reached the succeeded state.
func HasSucceededStatus(results []TargetResult) bool {
	for _, r := range results {
		if r.Status != TargetStatusSucceeded {
			return false
		}
	}

	return true
}
