package release

import (
	"context"

	foundation "github.com/estafette/estafette-foundation"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cratebuild/cratebuild/api"
	"github.com/cratebuild/cratebuild/clients/archive"
	"github.com/cratebuild/cratebuild/clients/docker"
	"github.com/cratebuild/cratebuild/clients/manifest"
	"github.com/cratebuild/cratebuild/clients/obfuscation"
	"github.com/cratebuild/cratebuild/services/target"
)

// Service runs a whole release, every selected target plus the packaging of
// whatever survived, and reports one result per target.
//go:generate mockgen -package=release -destination ./mock.go -source=service.go
type Service interface {
	Run(ctx context.Context, runnerConfig api.RunnerConfig) (results []api.TargetResult, err error)
}

// NewService returns a new release.Service.
func NewService(applicationInfo foundation.ApplicationInfo, targetService target.Service, dockerClient docker.Client, manifestClient manifest.Client, archiveClient archive.Client, obfuscationClient obfuscation.Client) Service {
	return &service{
		applicationInfo:   applicationInfo,
		targetService:     targetService,
		dockerClient:      dockerClient,
		manifestClient:    manifestClient,
		archiveClient:     archiveClient,
		obfuscationClient: obfuscationClient,
	}
}

type service struct {
	applicationInfo   foundation.ApplicationInfo
	targetService     target.Service
	dockerClient      docker.Client
	manifestClient    manifest.Client
	archiveClient     archive.Client
	obfuscationClient obfuscation.Client
}

func (s *service) Run(ctx context.Context, runnerConfig api.RunnerConfig) (results []api.TargetResult, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Run")
	defer span.Finish()

	log.Info().Msgf("Starting %v version %v...", s.applicationInfo.App, s.applicationInfo.Version)

	// mask registry credentials in anything logged from here on
	s.obfuscationClient.CollectSecrets(runnerConfig.Registries)

	releaseManifest, err := s.manifestClient.Read(runnerConfig.ProjectDir)
	if err != nil {
		return nil, err
	}

	log.Info().Msgf("Releasing %v version %v for %v target(s)", releaseManifest.Name, releaseManifest.Version, len(runnerConfig.Targets))

	// stop running containers as soon as the run context gets canceled
	runDone := make(chan struct{})
	defer close(runDone)
	go s.stopContainersOnCancellation(ctx, runDone)

	if runnerConfig.Parallel {
		results = s.runTargetsInParallel(ctx, runnerConfig, releaseManifest)
	} else {
		results = s.runTargetsInSequence(ctx, runnerConfig, releaseManifest)
	}

	s.packageArtifacts(ctx, runnerConfig, releaseManifest, results)

	return results, nil
}

func (s *service) runTargetsInSequence(ctx context.Context, runnerConfig api.RunnerConfig, releaseManifest api.ReleaseManifestInfo) (results []api.TargetResult) {

	results = make([]api.TargetResult, 0, len(runnerConfig.Targets))

	aborted := false
	for _, buildTarget := range runnerConfig.Targets {
		if aborted || ctx.Err() != nil {
			log.Warn().Msgf("[%v] Skipping target", buildTarget.ID)
			results = append(results, api.TargetResult{Target: buildTarget, Status: api.TargetStatusSkipped})
			continue
		}

		result := s.targetService.RunTarget(ctx, runnerConfig, releaseManifest, buildTarget)
		results = append(results, result)

		if runnerConfig.Strict && result.Status == api.TargetStatusFailed {
			log.Warn().Msgf("Aborting remaining targets after failure of '%v'", buildTarget.ID)
			aborted = true
		}
	}

	return
}

func (s *service) runTargetsInParallel(ctx context.Context, runnerConfig api.RunnerConfig, releaseManifest api.ReleaseManifestInfo) (results []api.TargetResult) {

	results = make([]api.TargetResult, len(runnerConfig.Targets))

	g, ctx := errgroup.WithContext(ctx)

	for i, buildTarget := range runnerConfig.Targets {
		i, buildTarget := i, buildTarget
		g.Go(func() error {
			result := s.targetService.RunTarget(ctx, runnerConfig, releaseManifest, buildTarget)
			results[i] = result

			if runnerConfig.Strict && result.Status == api.TargetStatusFailed {
				// cancels the group context, which cancels the targets still running
				return result.Err
			}

			return nil
		})
	}

	// the group error is already recorded on the failing target's result
	_ = g.Wait()

	return
}

func (s *service) packageArtifacts(ctx context.Context, runnerConfig api.RunnerConfig, releaseManifest api.ReleaseManifestInfo, results []api.TargetResult) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "PackageArtifacts")
	defer span.Finish()

	auxiliaryFiles := s.archiveClient.CollectAuxiliaryFiles(runnerConfig.ProjectDir, runnerConfig.Include)

	for i := range results {
		result := &results[i]

		if result.Status != api.TargetStatusSucceeded || result.Artifact == nil {
			continue
		}

		archiveSpec := api.ArchiveSpec{
			Name:    releaseManifest.Name,
			Version: releaseManifest.Version,
			Suffix:  result.Artifact.Suffix,
			Dir:     runnerConfig.ProjectDir,
			Members: append([]string{result.Artifact.Path}, auxiliaryFiles...),
		}

		err := s.archiveClient.CreateArchive(ctx, archiveSpec)
		if err != nil {
			result.Status = api.TargetStatusFailed
			result.Err = err
			log.Warn().Err(err).Msgf("[%v] Packaging failed", result.Target.ID)
			continue
		}

		result.ArchivePath = archiveSpec.Path()
	}
}

func (s *service) stopContainersOnCancellation(ctx context.Context, runDone <-chan struct{}) {
	select {
	case <-ctx.Done():
		log.Warn().Msg("Run canceled, stopping all running containers...")
		s.dockerClient.StopAllContainers()
	case <-runDone:
	}
}
