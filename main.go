package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin"
	foundation "github.com/estafette/estafette-foundation"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"

	"github.com/cratebuild/cratebuild/api"
	"github.com/cratebuild/cratebuild/clients/archive"
	"github.com/cratebuild/cratebuild/clients/docker"
	"github.com/cratebuild/cratebuild/clients/manifest"
	"github.com/cratebuild/cratebuild/clients/obfuscation"
	"github.com/cratebuild/cratebuild/services/release"
	"github.com/cratebuild/cratebuild/services/session"
	"github.com/cratebuild/cratebuild/services/target"
)

var (
	// set when building the application through ldflags
	app       string
	version   string
	branch    string
	revision  string
	buildDate string
)

var (
	projectDir    = kingpin.Flag("project-dir", "Directory holding the Cargo project to release.").Default(".").Envar("CRATEBUILD_PROJECT_DIR").String()
	targetNames   = kingpin.Flag("target", "Target to build; repeat for multiple. Builds all enabled targets when omitted.").Envar("CRATEBUILD_TARGET").Strings()
	imageOverride = kingpin.Flag("image", "Override the container image of the selected target; requires exactly one target.").Envar("CRATEBUILD_IMAGE").String()
	toolchain     = kingpin.Flag("toolchain", "Rust toolchain to install in every build environment.").Envar("CRATEBUILD_TOOLCHAIN").String()
	parallel      = kingpin.Flag("parallel", "Build all targets concurrently instead of one after another.").Envar("CRATEBUILD_PARALLEL").Bool()
	strict        = kingpin.Flag("strict", "Abort remaining targets after the first failure.").Envar("CRATEBUILD_STRICT").Bool()
	buildTimeout  = kingpin.Flag("build-timeout", "Maximum duration for a single target build; 0 disables the limit.").Default("0").Envar("CRATEBUILD_BUILD_TIMEOUT").Duration()
	logFormat     = kingpin.Flag("log-format", "Log format, either console or json.").Default("console").Envar("CRATEBUILD_LOG_FORMAT").String()
	logLevel      = kingpin.Flag("log-level", "Minimum log level.").Default("info").Envar("CRATEBUILD_LOG_LEVEL").String()
)

func main() {

	// parse command line parameters
	kingpin.Version(version)
	kingpin.Parse()

	initLogging(*logFormat, *logLevel)

	applicationInfo := foundation.ApplicationInfo{
		App:       app,
		Version:   version,
		Branch:    branch,
		Revision:  revision,
		BuildDate: buildDate,
	}

	closer := initJaeger(applicationInfo.App)
	defer closer.Close()

	rootSpan := opentracing.StartSpan("RunRelease")
	defer rootSpan.Finish()

	ctx := opentracing.ContextWithSpan(context.Background(), rootSpan)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// cancel the run on sigint or sigterm so running containers get stopped
	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-signalChannel
		log.Warn().Msgf("Received signal %v, canceling run...", s)
		cancel()
	}()

	runnerConfig, err := api.ResolveRunnerConfig(api.RunnerConfigOptions{
		ProjectDir:    *projectDir,
		TargetNames:   *targetNames,
		ImageOverride: *imageOverride,
		Toolchain:     *toolchain,
		Parallel:      *parallel,
		Strict:        *strict,
		BuildTimeout:  *buildTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Resolving runner configuration failed")
	}

	obfuscationClient, err := obfuscation.NewClient()
	if err != nil {
		log.Fatal().Err(err).Msg("Creating obfuscation client failed")
	}

	dockerClient, err := docker.NewClient(obfuscationClient, runnerConfig.Registries)
	if err != nil {
		log.Fatal().Err(err).Msg("Creating docker client failed")
	}

	manifestClient, err := manifest.NewClient()
	if err != nil {
		log.Fatal().Err(err).Msg("Creating manifest client failed")
	}

	archiveClient, err := archive.NewClient()
	if err != nil {
		log.Fatal().Err(err).Msg("Creating archive client failed")
	}

	sessionService := session.NewService()
	targetService := target.NewService(dockerClient, sessionService)
	releaseService := release.NewService(applicationInfo, targetService, dockerClient, manifestClient, archiveClient, obfuscationClient)

	log.Debug().Msgf("Connected to docker daemon: %v", dockerClient.Info(ctx))

	results, err := releaseService.Run(ctx, *runnerConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Release run failed")
	}

	api.RenderSummary(results)

	// finish and flush so it gets sent to the tracing backend
	rootSpan.Finish()
	closer.Close()

	api.HandleExit(results)
}

func initLogging(format, level string) {

	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		parsedLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsedLevel)

	// json is zerolog's native output, console gets the human readable writer
	if format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}

// initJaeger returns an instance of Jaeger Tracer that can be configured with environment variables
// https://github.com/jaegertracing/jaeger-client-go#environment-variables
func initJaeger(service string) io.Closer {

	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Generating Jaeger config from environment variables failed")
	}

	// disable jaeger if service name is empty
	if cfg.ServiceName == "" {
		cfg.Disabled = true
	}

	closer, err := cfg.InitGlobalTracer(service, jaegercfg.Logger(jaeger.StdLogger))
	if err != nil {
		log.Fatal().Err(err).Msg("Generating Jaeger tracer failed")
	}

	return closer
}
