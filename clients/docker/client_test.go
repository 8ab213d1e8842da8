package docker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	imagetypes "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	specs "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"

	"github.com/cratebuild/cratebuild/api"
	"github.com/cratebuild/cratebuild/clients/obfuscation"
)

func TestGetImagePullOptions(t *testing.T) {

	t.Run("ReturnsEmptyOptionsForImageWithoutMatchingRegistry", func(t *testing.T) {

		c := client{
			registries: []*api.ContainerRegistryCredentials{
				{
					Server:   "registry.red-soft.ru",
					Username: "builder",
					Password: "s3cr3tpassw0rd",
				},
			},
		}

		// act
		options := c.getImagePullOptions("ubuntu:22.04")

		assert.Equal(t, types.ImagePullOptions{}, options)
	})

	t.Run("ReturnsBase64EncodedAuthForImageFromConfiguredRegistry", func(t *testing.T) {

		c := client{
			registries: []*api.ContainerRegistryCredentials{
				{
					Server:   "registry.red-soft.ru",
					Username: "builder",
					Password: "s3cr3tpassw0rd",
				},
			},
		}

		// act
		options := c.getImagePullOptions("registry.red-soft.ru/ubi8/ubi:latest")

		assert.NotEmpty(t, options.RegistryAuth)

		decoded, err := base64.URLEncoding.DecodeString(options.RegistryAuth)
		assert.Nil(t, err)

		var authConfig types.AuthConfig
		err = json.Unmarshal(decoded, &authConfig)
		assert.Nil(t, err)
		assert.Equal(t, "builder", authConfig.Username)
		assert.Equal(t, "s3cr3tpassw0rd", authConfig.Password)
	})

	t.Run("DoesNotMatchRegistryNameWithoutPathSeparator", func(t *testing.T) {

		c := client{
			registries: []*api.ContainerRegistryCredentials{
				{
					Server:   "registry.red-soft.ru",
					Username: "builder",
					Password: "s3cr3tpassw0rd",
				},
			},
		}

		// act
		options := c.getImagePullOptions("registry.red-soft.ru.example.com/ubi8/ubi")

		assert.Equal(t, types.ImagePullOptions{}, options)
	})

	t.Run("SkipsRegistryWithoutServer", func(t *testing.T) {

		c := client{
			registries: []*api.ContainerRegistryCredentials{
				{
					Username: "builder",
					Password: "s3cr3tpassw0rd",
				},
			},
		}

		// act
		options := c.getImagePullOptions("ubuntu:22.04")

		assert.Equal(t, types.ImagePullOptions{}, options)
	})
}

func TestPulledImageTracking(t *testing.T) {

	t.Run("ReportsImageNotPulledInitially", func(t *testing.T) {

		c := client{
			pulledImages: make(map[string]bool),
		}

		// act
		pulled := c.hasPulledImage("ubuntu:22.04")

		assert.False(t, pulled)
	})

	t.Run("ReportsImagePulledAfterMarking", func(t *testing.T) {

		c := client{
			pulledImages: make(map[string]bool),
		}

		// act
		c.markImagePulled("ubuntu:22.04")

		assert.True(t, c.hasPulledImage("ubuntu:22.04"))
		assert.False(t, c.hasPulledImage("registry.red-soft.ru/ubi8/ubi"))
	})
}

func TestRunningContainerIDs(t *testing.T) {

	t.Run("RemovesOnlyMatchingContainerID", func(t *testing.T) {

		c := client{}
		c.addRunningContainerID("abc123")
		c.addRunningContainerID("def456")

		// act
		c.removeRunningContainerID("abc123")

		assert.Equal(t, []string{"def456"}, c.runningContainerIDs)
	})

	t.Run("RemovingUnknownContainerIDLeavesListIntact", func(t *testing.T) {

		c := client{}
		c.addRunningContainerID("abc123")

		// act
		c.removeRunningContainerID("zzz999")

		assert.Equal(t, []string{"abc123"}, c.runningContainerIDs)
	})
}

func TestStartBuildContainer(t *testing.T) {

	t.Run("RemovesCreatedContainerWhenStartFails", func(t *testing.T) {

		stub := &apiClientStub{startErr: errors.New("oci runtime error")}
		c := newClientWithStub(stub)

		buildSession := api.BuildSession{
			Target:  api.BuildTarget{ID: "linux-musl", Image: "ubuntu:22.04"},
			WorkDir: "/workspace/curcat",
		}

		// act
		containerID, err := c.StartBuildContainer(context.Background(), buildSession, "/tmp/entrypoint", map[string]string{})

		assert.True(t, errors.Is(err, api.ErrEnvironmentLaunch))
		assert.Equal(t, "c-1", containerID)
		// AutoRemove never reaps a container that did not start, so the client has to
		assert.Equal(t, []string{"c-1"}, stub.removedIDs)
		assert.Empty(t, c.runningContainerIDs)
	})

	t.Run("TracksRunningContainerAfterSuccessfulStart", func(t *testing.T) {

		stub := &apiClientStub{}
		c := newClientWithStub(stub)

		buildSession := api.BuildSession{
			Target:  api.BuildTarget{ID: "linux-musl", Image: "ubuntu:22.04"},
			WorkDir: "/workspace/curcat",
		}

		// act
		containerID, err := c.StartBuildContainer(context.Background(), buildSession, "/tmp/entrypoint", map[string]string{})

		assert.Nil(t, err)
		assert.Equal(t, "c-1", containerID)
		assert.Equal(t, []string{"c-1"}, c.runningContainerIDs)
		assert.Empty(t, stub.removedIDs)
	})
}

func TestContains(t *testing.T) {

	t.Run("ReturnsTrueWhenValuePresent", func(t *testing.T) {

		repoTags := []string{"ubuntu:20.04", "ubuntu:22.04"}

		// act
		result := contains(repoTags, "ubuntu:22.04")

		assert.True(t, result)
	})

	t.Run("ReturnsFalseWhenValueAbsent", func(t *testing.T) {

		repoTags := []string{"ubuntu:20.04"}

		// act
		result := contains(repoTags, "ubuntu:22.04")

		assert.False(t, result)
	})
}

func newClientWithStub(stub *apiClientStub) *client {

	obfuscationClient, _ := obfuscation.NewClient()

	return &client{
		dockerClient:      stub,
		obfuscationClient: obfuscationClient,
		pulledImages:      make(map[string]bool),
		pulledImagesMutex: NewMapMutex(),
	}
}

// apiClientStub stands in for the docker SDK client; zero values everywhere
// except the configured failures and the recorded removals.
type apiClientStub struct {
	startErr   error
	removedIDs []string
}

func (s *apiClientStub) ImageList(ctx context.Context, options types.ImageListOptions) ([]types.ImageSummary, error) {
	return nil, nil
}

func (s *apiClientStub) ImagePull(ctx context.Context, refStr string, options types.ImagePullOptions) (io.ReadCloser, error) {
	return ioutil.NopCloser(strings.NewReader("")), nil
}

func (s *apiClientStub) ImageHistory(ctx context.Context, imageID string) ([]imagetypes.HistoryResponseItem, error) {
	return nil, nil
}

func (s *apiClientStub) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *specs.Platform, containerName string) (container.ContainerCreateCreatedBody, error) {
	return container.ContainerCreateCreatedBody{ID: "c-1"}, nil
}

func (s *apiClientStub) ContainerStart(ctx context.Context, containerID string, options types.ContainerStartOptions) error {
	return s.startErr
}

func (s *apiClientStub) ContainerLogs(ctx context.Context, containerID string, options types.ContainerLogsOptions) (io.ReadCloser, error) {
	return ioutil.NopCloser(strings.NewReader("")), nil
}

func (s *apiClientStub) ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.ContainerWaitOKBody, <-chan error) {
	resultC := make(chan container.ContainerWaitOKBody, 1)
	resultC <- container.ContainerWaitOKBody{}
	return resultC, make(chan error)
}

func (s *apiClientStub) ContainerStop(ctx context.Context, containerID string, timeout *time.Duration) error {
	return nil
}

func (s *apiClientStub) ContainerRemove(ctx context.Context, containerID string, options types.ContainerRemoveOptions) error {
	s.removedIDs = append(s.removedIDs, containerID)
	return nil
}

func (s *apiClientStub) Info(ctx context.Context) (types.Info, error) {
	return types.Info{}, nil
}
