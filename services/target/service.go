package target

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"

	"github.com/cratebuild/cratebuild/api"
	"github.com/cratebuild/cratebuild/clients/docker"
	"github.com/cratebuild/cratebuild/services/session"
)

// Service runs one build target from image pull to verified host artifact
//go:generate mockgen -package=target -destination ./mock.go -source=service.go
type Service interface {
	RunTarget(ctx context.Context, runnerConfig api.RunnerConfig, releaseManifest api.ReleaseManifestInfo, buildTarget api.BuildTarget) (result api.TargetResult)
}

// NewService returns a new target.Service. The host identity artifacts get
// chowned back to is captured once here, the startup boundary.
func NewService(dockerClient docker.Client, sessionService session.Service) Service {
	return &service{
		dockerClient:   dockerClient,
		sessionService: sessionService,
		hostUID:        os.Getuid(),
		hostGID:        os.Getgid(),
	}
}

type service struct {
	dockerClient   docker.Client
	sessionService session.Service
	hostUID        int
	hostGID        int
}

func (s *service) RunTarget(ctx context.Context, runnerConfig api.RunnerConfig, releaseManifest api.ReleaseManifestInfo, buildTarget api.BuildTarget) (result api.TargetResult) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "RunTarget")
	defer span.Finish()
	span.SetTag("target", buildTarget.ID)
	span.SetTag("docker-image", buildTarget.Image)

	result = api.TargetResult{Target: buildTarget}

	log.Info().Msgf("[%v] Building %v %v with image '%v'", buildTarget.ID, releaseManifest.Name, releaseManifest.Version, buildTarget.Image)

	err := s.pullImageIfNeeded(ctx, buildTarget, &result)
	if err != nil {
		if ctx.Err() != nil {
			return s.finishFailed(result, fmt.Errorf("%w: run canceled while pulling image '%v' for target %v", api.ErrCanceled, buildTarget.Image, buildTarget.ID))
		}
		return s.finishFailed(result, fmt.Errorf("%w: pulling image '%v' for target %v failed: %v", api.ErrEnvironmentLaunch, buildTarget.Image, buildTarget.ID, err))
	}

	buildSession := api.BuildSession{
		Target:     buildTarget,
		WorkDir:    runnerConfig.ProjectDir,
		BinaryName: releaseManifest.Name,
		UID:        s.hostUID,
		GID:        s.hostGID,
	}

	entrypointHostDir, err := s.sessionService.GenerateSessionScript(buildTarget)
	if err != nil {
		if entrypointHostDir != "" {
			os.RemoveAll(entrypointHostDir)
		}
		return s.finishFailed(result, fmt.Errorf("%w: generating session script for target %v failed: %v", api.ErrEnvironmentLaunch, buildTarget.ID, err))
	}
	defer os.RemoveAll(entrypointHostDir)

	envvars := s.sessionService.GetSessionEnvironment(buildSession)

	sessionCtx := ctx
	if runnerConfig.BuildTimeout > 0 {
		var cancel context.CancelFunc
		sessionCtx, cancel = context.WithTimeout(ctx, runnerConfig.BuildTimeout)
		defer cancel()
	}

	buildStart := time.Now()

	containerID, err := s.dockerClient.StartBuildContainer(sessionCtx, buildSession, entrypointHostDir, envvars)
	if err != nil {
		if sessionCtx.Err() != nil {
			return s.finishFailed(result, s.sessionError(sessionCtx, runnerConfig.BuildTimeout))
		}
		return s.finishFailed(result, err)
	}

	// stop the container when the session context expires or the run gets
	// canceled, otherwise docker keeps it running detached
	sessionDone := make(chan struct{})
	defer close(sessionDone)
	go func() {
		select {
		case <-sessionCtx.Done():
			s.dockerClient.StopContainer(containerID)
		case <-sessionDone:
		}
	}()

	// tailing follows the log stream until the container exits
	warnings, err := s.dockerClient.TailContainerLogs(sessionCtx, containerID, buildTarget.ID)
	result.Warnings = warnings
	if err != nil {
		log.Warn().Err(err).Msgf("[%v] Tailing container logs failed", buildTarget.ID)
	}

	exitCode, err := s.dockerClient.WaitContainerExit(sessionCtx, containerID)
	result.BuildDuration = time.Since(buildStart)
	if err != nil {
		if sessionCtx.Err() != nil {
			return s.finishFailed(result, s.sessionError(sessionCtx, runnerConfig.BuildTimeout))
		}
		return s.finishFailed(result, fmt.Errorf("%w: waiting for the build container of target %v failed: %v", api.ErrEnvironmentLaunch, buildTarget.ID, err))
	}

	if err = s.sessionService.ClassifyExitCode(exitCode); err != nil {
		if sessionCtx.Err() != nil {
			return s.finishFailed(result, s.sessionError(sessionCtx, runnerConfig.BuildTimeout))
		}
		return s.finishFailed(result, err)
	}

	artifactPath := buildTarget.ArtifactPath(runnerConfig.ProjectDir, releaseManifest.Name)
	if err = verifyArtifact(artifactPath); err != nil {
		return s.finishFailed(result, err)
	}

	result.Artifact = &api.ArtifactDescriptor{
		Path:   artifactPath,
		Suffix: buildTarget.Suffix,
	}
	result.Status = api.TargetStatusSucceeded

	log.Info().Msgf("[%v] Build succeeded, artifact at %v", buildTarget.ID, artifactPath)

	return result
}

// pullImageIfNeeded pulls the target's image unless it is already present
// locally, recording pull duration and image size on the result.
func (s *service) pullImageIfNeeded(ctx context.Context, buildTarget api.BuildTarget, result *api.TargetResult) (err error) {

	isPulledImage := s.dockerClient.IsImagePulled(ctx, buildTarget.ID, buildTarget.Image)

	if !isPulledImage {
		pullStart := time.Now()
		err = s.dockerClient.PullImage(ctx, buildTarget.ID, buildTarget.Image)
		result.PullDuration = time.Since(pullStart)
		if err != nil {
			return err
		}
	}

	imageSize, err := s.dockerClient.GetImageSize(ctx, buildTarget.Image)
	if err != nil {
		log.Warn().Err(err).Msgf("[%v] Failed retrieving size of image '%v'", buildTarget.ID, buildTarget.Image)
		return nil
	}
	result.ImageSize = imageSize

	return nil
}

func (s *service) finishFailed(result api.TargetResult, err error) api.TargetResult {

	result.Err = err
	result.Status = api.TargetStatusFailed
	if errors.Is(err, api.ErrCanceled) || errors.Is(err, context.Canceled) {
		result.Status = api.TargetStatusCanceled
	}

	log.Warn().Err(err).Msgf("[%v] Target failed", result.Target.ID)

	return result
}

// sessionError tells a timed-out session apart from a canceled run once the
// session context has expired.
func (s *service) sessionError(sessionCtx context.Context, buildTimeout time.Duration) error {
	if errors.Is(sessionCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: session exceeded the build timeout of %v", api.ErrCanceled, buildTimeout)
	}

	return fmt.Errorf("%w: run canceled while the session was in flight", api.ErrCanceled)
}

// verifyArtifact guards against sessions that exit successfully without the
// binary actually reaching the host mount.
func verifyArtifact(artifactPath string) error {

	info, err := os.Stat(artifactPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: expected binary at %v after the session finished", api.ErrArtifactMissing, artifactPath)
		}
		return fmt.Errorf("%w: checking %v: %v", api.ErrArtifactMissing, artifactPath, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %v is not a regular file", api.ErrArtifactMissing, artifactPath)
	}

	return nil
}
