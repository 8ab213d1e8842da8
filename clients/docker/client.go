package docker

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	imagetypes "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	dockerclient "github.com/docker/docker/client"
	specs "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/cratebuild/cratebuild/api"
	"github.com/cratebuild/cratebuild/clients/obfuscation"
)

const (
	// ContainerWorkDir is the in-container mount point of the project directory.
	ContainerWorkDir = "/cratebuild/work"
	// ContainerEntrypointDir is the in-container mount point of the directory
	// holding the rendered session script.
	ContainerEntrypointDir = "/cratebuild/entrypoint"
	// EntrypointFilename is the name of the session script inside ContainerEntrypointDir.
	EntrypointFilename = "build.sh"
)

// Client is the interface for running build sessions in docker containers
//go:generate mockgen -package=docker -destination ./mock.go -source=client.go
type Client interface {
	IsImagePulled(ctx context.Context, targetID string, containerImage string) bool
	PullImage(ctx context.Context, targetID string, containerImage string) (err error)
	GetImageSize(ctx context.Context, containerImage string) (totalSize int64, err error)
	StartBuildContainer(ctx context.Context, session api.BuildSession, entrypointHostDir string, envvars map[string]string) (containerID string, err error)
	TailContainerLogs(ctx context.Context, containerID string, targetID string) (warnings []api.SessionWarning, err error)
	WaitContainerExit(ctx context.Context, containerID string) (exitCode int64, err error)
	StopContainer(containerID string)
	StopAllContainers()
	Info(ctx context.Context) string
}

// apiClient is the subset of the docker SDK client this package calls; the SDK
// client satisfies it directly.
type apiClient interface {
	ImageList(ctx context.Context, options types.ImageListOptions) ([]types.ImageSummary, error)
	ImagePull(ctx context.Context, refStr string, options types.ImagePullOptions) (io.ReadCloser, error)
	ImageHistory(ctx context.Context, imageID string) ([]imagetypes.HistoryResponseItem, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *specs.Platform, containerName string) (container.ContainerCreateCreatedBody, error)
	ContainerStart(ctx context.Context, containerID string, options types.ContainerStartOptions) error
	ContainerLogs(ctx context.Context, containerID string, options types.ContainerLogsOptions) (io.ReadCloser, error)
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.ContainerWaitOKBody, <-chan error)
	ContainerStop(ctx context.Context, containerID string, timeout *time.Duration) error
	ContainerRemove(ctx context.Context, containerID string, options types.ContainerRemoveOptions) error
	Info(ctx context.Context) (types.Info, error)
}

// NewClient returns a docker.Client connected to the daemon configured through
// the usual DOCKER_HOST family of environment variables.
func NewClient(obfuscationClient obfuscation.Client, registries []*api.ContainerRegistryCredentials) (Client, error) {
	dockerClient, err := dockerclient.NewClientWithOpts(dockerclient.FromEnv)
	if err != nil {
		return nil, fmt.Errorf("%w: creating docker client failed: %v", api.ErrEnvironmentLaunch, err)
	}

	return &client{
		dockerClient:      dockerClient,
		obfuscationClient: obfuscationClient,
		registries:        registries,
		pulledImages:      make(map[string]bool),
		pulledImagesMutex: NewMapMutex(),
	}, nil
}

type client struct {
	dockerClient      apiClient
	obfuscationClient obfuscation.Client
	registries        []*api.ContainerRegistryCredentials

	pulledImages      map[string]bool
	pulledImagesMutex *MapMutex
	imagesMutex       sync.Mutex

	runningContainerIDs      []string
	runningContainerIDsMutex sync.Mutex
}

func (c *client) IsImagePulled(ctx context.Context, targetID string, containerImage string) bool {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IsImagePulled")
	defer span.Finish()
	span.SetTag("docker-image", containerImage)

	log.Info().Msgf("[%v] Checking if docker image '%v' exists locally...", targetID, containerImage)

	// block while the same image is being pulled for another target
	c.pulledImagesMutex.RLock(containerImage)
	defer c.pulledImagesMutex.RUnlock(containerImage)

	imageSummaries, err := c.dockerClient.ImageList(ctx, types.ImageListOptions{})
	if err != nil {
		return false
	}

	for _, summary := range imageSummaries {
		if contains(summary.RepoTags, containerImage) {
			return true
		}
	}

	return false
}

func (c *client) PullImage(ctx context.Context, targetID string, containerImage string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "PullImage")
	defer span.Finish()
	span.SetTag("docker-image", containerImage)

	// serialize pulls per image, so parallel targets sharing an image pull it once
	c.pulledImagesMutex.Lock(containerImage)
	defer c.pulledImagesMutex.Unlock(containerImage)

	if c.hasPulledImage(containerImage) {
		log.Info().Msgf("[%v] Docker image '%v' has been pulled for another target already", targetID, containerImage)
		return nil
	}

	log.Info().Msgf("[%v] Pulling docker image '%v'", targetID, containerImage)

	rc, err := c.dockerClient.ImagePull(ctx, containerImage, c.getImagePullOptions(containerImage))
	if err != nil {
		return err
	}
	defer rc.Close()

	// the pull is asynchronous, so consume the event stream until it closes
	bar := progressbar.DefaultBytes(-1, fmt.Sprintf("[%v] %v", targetID, containerImage))
	_, err = io.Copy(bar, rc)
	bar.Finish()
	if err != nil {
		return err
	}

	c.markImagePulled(containerImage)

	return nil
}

func (c *client) GetImageSize(ctx context.Context, containerImage string) (totalSize int64, err error) {
	items, err := c.dockerClient.ImageHistory(ctx, containerImage)
	if err != nil {
		return totalSize, err
	}

	for _, item := range items {
		totalSize += item.Size
	}

	return totalSize, nil
}

func (c *client) StartBuildContainer(ctx context.Context, session api.BuildSession, entrypointHostDir string, envvars map[string]string) (containerID string, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "StartBuildContainer")
	defer span.Finish()
	span.SetTag("docker-image", session.Target.Image)

	// define docker envvars
	dockerEnvVars := make([]string, 0, len(envvars))
	for k, v := range envvars {
		dockerEnvVars = append(dockerEnvVars, fmt.Sprintf("%v=%v", k, v))
	}

	// mount the project read-write so exported binaries survive the container
	binds := []string{
		fmt.Sprintf("%v:%v", session.WorkDir, ContainerWorkDir),
		fmt.Sprintf("%v:%v", entrypointHostDir, ContainerEntrypointDir),
	}

	config := container.Config{
		AttachStdout: true,
		AttachStderr: true,
		Env:          dockerEnvVars,
		Image:        session.Target.Image,
		WorkingDir:   ContainerWorkDir,
		Entrypoint:   []string{path.Join(ContainerEntrypointDir, EntrypointFilename)},
	}

	resp, err := c.dockerClient.ContainerCreate(ctx, &config, &container.HostConfig{
		Binds:      binds,
		AutoRemove: true,
		LogConfig: container.LogConfig{
			Type: "local",
			Config: map[string]string{
				"max-size": "20m",
				"max-file": "5",
				"compress": "true",
				"mode":     "non-blocking",
			},
		},
	}, &network.NetworkingConfig{}, nil, "")
	if err != nil {
		return "", fmt.Errorf("%w: creating container from image %v failed: %v", api.ErrEnvironmentLaunch, session.Target.Image, err)
	}

	containerID = resp.ID
	c.addRunningContainerID(containerID)

	err = c.dockerClient.ContainerStart(ctx, containerID, types.ContainerStartOptions{})
	if err != nil {
		c.removeRunningContainerID(containerID)

		// AutoRemove only reaps containers that ran, a created-but-unstarted one
		// has to be removed here or it lingers in the daemon
		removeErr := c.dockerClient.ContainerRemove(context.Background(), containerID, types.ContainerRemoveOptions{Force: true})
		if removeErr != nil {
			log.Warn().Err(removeErr).Msgf("Failed removing unstarted container with id %v", containerID)
		}

		return containerID, fmt.Errorf("%w: starting container from image %v failed: %v", api.ErrEnvironmentLaunch, session.Target.Image, err)
	}

	return containerID, nil
}

func (c *client) TailContainerLogs(ctx context.Context, containerID string, targetID string) (warnings []api.SessionWarning, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "TailContainerLogs")
	defer span.Finish()

	rc, err := c.dockerClient.ContainerLogs(ctx, containerID, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Timestamps: false,
		Follow:     true,
		Details:    false,
	})
	if err != nil {
		return warnings, err
	}
	defer rc.Close()

	in := bufio.NewReader(rc)
	for {
		// strip first 8 bytes, they contain docker control characters (https://github.com/docker/docker-ce/blob/v18.06.1-ce/components/engine/client/container_logs.go#L23-L32)
		headers := make([]byte, 8)
		_, err = io.ReadFull(in, headers)
		if err != nil {
			break
		}

		// first byte contains the stream type, 1 for stdout and 2 for stderr
		switch headers[0] {
		case 1, 2:
		default:
			continue
		}

		// read the rest of the line until we hit end of line
		logLine, readErr := in.ReadBytes('\n')
		if readErr != nil {
			err = readErr
			break
		}

		logLineString := c.obfuscationClient.Obfuscate(strings.TrimRight(string(logLine), "\r\n"))

		if warning, ok := api.ParseSessionWarning(logLineString); ok {
			warnings = append(warnings, warning)
			log.Warn().Msgf("[%v] %v", targetID, logLineString)
			continue
		}

		log.Info().Msgf("[%v] %v", targetID, logLineString)
	}

	if err == io.EOF {
		return warnings, nil
	}

	return warnings, err
}

func (c *client) WaitContainerExit(ctx context.Context, containerID string) (exitCode int64, err error) {
	defer c.removeRunningContainerID(containerID)

	resultC, errC := c.dockerClient.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)

	select {
	case result := <-resultC:
		exitCode = result.StatusCode
	case err = <-errC:
		return 0, err
	}

	return exitCode, nil
}

// StopContainer stops a single container, used when its build ran into the
// configured timeout.
func (c *client) StopContainer(containerID string) {
	c.stopContainer(containerID)
	c.removeRunningContainerID(containerID)
}

// StopAllContainers stops any container started by this client that has not
// exited yet; used when the run gets canceled.
func (c *client) StopAllContainers() {
	c.runningContainerIDsMutex.Lock()
	containerIDs := make([]string, len(c.runningContainerIDs))
	copy(containerIDs, c.runningContainerIDs)
	c.runningContainerIDsMutex.Unlock()

	if len(containerIDs) > 0 {
		log.Info().Msgf("Stopping %v running containers...", len(containerIDs))

		var wg sync.WaitGroup
		wg.Add(len(containerIDs))

		for _, id := range containerIDs {
			go func(id string) {
				defer wg.Done()
				c.stopContainer(id)
			}(id)
		}

		wg.Wait()

		log.Info().Msg("Stopped all containers")
	}
}

func (c *client) Info(ctx context.Context) string {
	info, err := c.dockerClient.Info(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed retrieving docker daemon info")
		return ""
	}

	return fmt.Sprintf("%v %v on %v/%v", info.Name, info.ServerVersion, info.OSType, info.Architecture)
}

func (c *client) stopContainer(containerID string) {
	log.Info().Msgf("Stopping container with id %v", containerID)

	timeout := 20 * time.Second

	// the run context is canceled at this point, so stop with a fresh one
	err := c.dockerClient.ContainerStop(context.Background(), containerID, &timeout)
	if err != nil {
		log.Warn().Err(err).Msgf("Failed stopping container with id %v", containerID)
		return
	}

	log.Info().Msgf("Stopped container with id %v", containerID)
}

func (c *client) addRunningContainerID(containerID string) {
	c.runningContainerIDsMutex.Lock()
	defer c.runningContainerIDsMutex.Unlock()

	c.runningContainerIDs = append(c.runningContainerIDs, containerID)
}

func (c *client) removeRunningContainerID(containerID string) {
	c.runningContainerIDsMutex.Lock()
	defer c.runningContainerIDsMutex.Unlock()

	purgedContainerIDs := []string{}
	for _, id := range c.runningContainerIDs {
		if id != containerID {
			purgedContainerIDs = append(purgedContainerIDs, id)
		}
	}

	c.runningContainerIDs = purgedContainerIDs
}

func (c *client) hasPulledImage(containerImage string) bool {
	c.imagesMutex.Lock()
	defer c.imagesMutex.Unlock()

	return c.pulledImages[containerImage]
}

func (c *client) markImagePulled(containerImage string) {
	c.imagesMutex.Lock()
	defer c.imagesMutex.Unlock()

	c.pulledImages[containerImage] = true
}

func (c *client) getImagePullOptions(containerImage string) types.ImagePullOptions {
	for _, credentials := range c.registries {
		if credentials == nil || credentials.Server == "" {
			continue
		}
		if !strings.HasPrefix(containerImage, credentials.Server+"/") {
			continue
		}

		authConfig := types.AuthConfig{
			Username: credentials.Username,
			Password: credentials.Password,
		}
		encodedJSON, err := json.Marshal(authConfig)
		if err != nil {
			log.Error().Err(err).Msgf("Failed marshaling credentials for registry %v", credentials.Server)
			break
		}

		log.Info().Msgf("Pulling docker image %v with registry credentials for %v", containerImage, credentials.Server)

		return types.ImagePullOptions{
			RegistryAuth: base64.URLEncoding.EncodeToString(encodedJSON),
		}
	}

	return types.ImagePullOptions{}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
