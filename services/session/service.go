package session

import (
	_ "embed"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"strconv"
	"text/template"

	"github.com/rs/zerolog/log"

	"github.com/cratebuild/cratebuild/api"
	"github.com/cratebuild/cratebuild/clients/docker"
)

//go:embed templates/build.sh
var buildScriptTemplate string

// Exit codes the session script uses to tell the failing step apart; anything
// else coming out of the container is treated as a failed build.
const (
	exitCodePrerequisites = 65
	exitCodeToolchain     = 66
	exitCodeCompile       = 67
	exitCodeExport        = 68
)

// Service prepares what a build container needs to run a session, the rendered
// session script on a mountable host path and the container environment, and
// translates the exit code a finished session reports.
//go:generate mockgen -package=session -destination ./mock.go -source=service.go
type Service interface {
	GenerateSessionScript(target api.BuildTarget) (hostDir string, err error)
	GetSessionEnvironment(session api.BuildSession) map[string]string
	ClassifyExitCode(exitCode int64) error
}

// NewService returns a new session.Service.
func NewService() Service {
	return &service{}
}

type service struct {
}

func (s *service) GenerateSessionScript(target api.BuildTarget) (hostDir string, err error) {

	data := struct {
		RustTarget    string
		ExtraPackages []string
	}{
		RustTarget:    target.RustTarget,
		ExtraPackages: target.ExtraPackages,
	}

	scriptTemplate, err := template.New(docker.EntrypointFilename).Parse(buildScriptTemplate)
	if err != nil {
		return
	}

	hostDir, err = ioutil.TempDir("", "*-entrypoint")
	if err != nil {
		return
	}

	// the temp dir must not outlive this call when any later step fails
	defer func() {
		if err != nil {
			os.RemoveAll(hostDir)
			hostDir = ""
		}
	}()

	// set permissions on directory to avoid non-root containers not to be able to read from the mounted directory
	err = os.Chmod(hostDir, 0777)
	if err != nil {
		return
	}

	scriptPath := path.Join(hostDir, docker.EntrypointFilename)

	targetFile, err := os.Create(scriptPath)
	if err != nil {
		return
	}
	defer targetFile.Close()

	err = scriptTemplate.Execute(targetFile, data)
	if err != nil {
		return
	}

	err = os.Chmod(scriptPath, 0777)
	if err != nil {
		return
	}

	scriptBytes, innerErr := ioutil.ReadFile(scriptPath)
	if innerErr == nil {
		log.Debug().Str("script", string(scriptBytes)).Msgf("[%v] Generated session script at %v", target.ID, scriptPath)
	}

	return hostDir, nil
}

func (s *service) GetSessionEnvironment(session api.BuildSession) map[string]string {

	// target envvars from the config file win over the session defaults
	return mergeEnvvars(map[string]string{
		"CARGO_HOME":           "/cratebuild/cargo",
		"RUSTUP_HOME":          "/cratebuild/rustup",
		"CARGO_TARGET_DIR":     "/cratebuild/build",
		"CRATEBUILD_BIN":       session.BinaryName,
		"CRATEBUILD_TOOLCHAIN": session.Target.Toolchain,
		"CRATEBUILD_WORKDIR":   docker.ContainerWorkDir,
		"CRATEBUILD_OUTDIR":    path.Join(docker.ContainerWorkDir, "target", session.Target.ID),
		"CRATEBUILD_UID":       strconv.Itoa(session.UID),
		"CRATEBUILD_GID":       strconv.Itoa(session.GID),
	}, session.Target.Env)
}

func (s *service) ClassifyExitCode(exitCode int64) error {
	switch exitCode {
	case 0:
		return nil
	case exitCodePrerequisites:
		return fmt.Errorf("%w: installing build prerequisites failed (exit code %v)", api.ErrToolchainInstall, exitCode)
	case exitCodeToolchain:
		return fmt.Errorf("%w: installing the rust toolchain failed (exit code %v)", api.ErrToolchainInstall, exitCode)
	case exitCodeCompile:
		return fmt.Errorf("%w: cargo build failed (exit code %v)", api.ErrCompile, exitCode)
	case exitCodeExport:
		return fmt.Errorf("%w: exporting the binary from the container failed (exit code %v)", api.ErrArtifactMissing, exitCode)
	case 130, 137, 143:
		// terminated by SIGINT, SIGKILL or SIGTERM, the usual traces of a canceled run
		return fmt.Errorf("%w: session terminated by signal (exit code %v)", api.ErrCanceled, exitCode)
	default:
		return fmt.Errorf("%w: session exited with code %v", api.ErrCompile, exitCode)
	}
}

func mergeEnvvars(envvarMaps ...map[string]string) (envvars map[string]string) {
	envvars = map[string]string{}
	for _, envvarMap := range envvarMaps {
		for k, v := range envvarMap {
			envvars[k] = v
		}
	}
	return
}
