package main

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kingpin"
	"github.com/estafette/estafette-extension-image-record/clients/github"
	"github.com/estafette/estafette-extension-image-record/clients/obfuscation"
	"github.com/estafette/estafette-extension-image-record/config"
	"github.com/estafette/estafette-extension-image-record/pkg/extension"
	"github.com/estafette/estafette-extension-image-record/services/evaluation"
	"github.com/estafette/estafette-extension-image-record/services/recorder"
	"github.com/estafette/estafette-extension-image-record/services/repository"
	crypt "github.com/estafette/estafette-ci-crypt"
	foundation "github.com/estafette/estafette-foundation"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// set when building the application
var (
	appgroup  = "estafette"
	app       = "estafette-extension-image-record"
	version   string
	branch    string
	revision  string
	buildDate string
)

var (
	// step inputs
	repoToken         = kingpin.Flag("repo-token", "Token to read the configuration and record file with.").Envar("ESTAFETTE_EXTENSION_REPO_TOKEN").String()
	configurationPath = kingpin.Flag("configuration-path", "Path of the configuration file in the source repository.").Envar("ESTAFETTE_EXTENSION_CONFIGURATION_PATH").String()
	imageTag          = kingpin.Flag("image-tag", "Published container image tag to record.").Envar("ESTAFETTE_EXTENSION_IMAGE_TAG").String()
	targetToken       = kingpin.Flag("target-token", "Token to commit to the target repository with.").Envar("ESTAFETTE_EXTENSION_TARGET_TOKEN").String()
	pullRequestNumber = kingpin.Flag("pull-request-number", "Pull request to comment the summary on.").Envar("ESTAFETTE_EXTENSION_PULL_REQUEST_NUMBER").Default("0").Int()
	apiBaseURL        = kingpin.Flag("api-base-url", "Base url of the github api.").Envar("ESTAFETTE_EXTENSION_API_BASE_URL").Default(github.DefaultAPIBaseURL).String()

	// build context
	gitSource   = kingpin.Flag("git-source", "Git host of the source repository.").Envar("ESTAFETTE_GIT_SOURCE").String()
	sourceOwner = kingpin.Flag("source-owner", "Owner of the repository holding the configuration file.").Envar("ESTAFETTE_GIT_OWNER").String()
	sourceRepo  = kingpin.Flag("source-repo", "Repository holding the configuration file.").Envar("ESTAFETTE_GIT_NAME").String()
	gitBranch   = kingpin.Flag("git-branch", "Branch being built.").Envar("ESTAFETTE_GIT_BRANCH").String()

	secretDecryptionKey = kingpin.Flag("secret-decryption-key", "Key to decrypt estafette.secret(...) tokens with.").Envar("ESTAFETTE_CI_SECRET_DECRYPTION_KEY").String()
)

func main() {

	// parse command line parameters
	kingpin.Parse()

	// init log format from envvar ESTAFETTE_LOG_FORMAT
	applicationInfo := foundation.NewApplicationInfo(appgroup, app, version, branch, revision, buildDate)
	foundation.InitLoggingFromEnv(applicationInfo)

	closer := initJaeger(applicationInfo.App)
	defer closer.Close()

	// create context to cancel commands on sigterm
	ctx := foundation.InitCancellationContext(context.Background())

	inputs := config.StepInputs{
		ConfigurationPath: *configurationPath,
		ImageTag:          *imageTag,
		GitSource:         *gitSource,
		SourceOwner:       *sourceOwner,
		SourceRepo:        *sourceRepo,
		GitBranch:         *gitBranch,
		PullRequestNumber: *pullRequestNumber,
	}

	var secretHelper crypt.SecretHelper
	if *secretDecryptionKey != "" {
		secretHelper = crypt.NewSecretHelper(*secretDecryptionKey, false)
	}
	obfuscationClient, err := obfuscation.NewClient(secretHelper, inputs.PipelineName())
	if err != nil {
		log.Fatal().Err(err).Msg("Creating obfuscation client failed")
	}
	fatalHandler := extension.NewFatalHandler(obfuscationClient)

	inputs.RepoToken, err = obfuscationClient.RevealSecret(*repoToken)
	if err != nil {
		fatalHandler.HandleFatal(err, "Reading repo-token failed")
	}
	inputs.TargetToken, err = obfuscationClient.RevealSecret(*targetToken)
	if err != nil {
		fatalHandler.HandleFatal(err, "Reading target-token failed")
	}

	evaluationService, err := evaluation.NewService(ctx)
	if err != nil {
		fatalHandler.HandleFatal(err, "Creating evaluation service failed")
	}

	repositoryServiceFactory := func(token string) (repository.Service, error) {
		githubClient, err := github.NewClient(*apiBaseURL, token)
		if err != nil {
			return nil, err
		}
		return repository.NewService(ctx, githubClient)
	}

	recorderService, err := recorder.NewService(ctx, repositoryServiceFactory, evaluationService, nil, os.Stdout)
	if err != nil {
		fatalHandler.HandleFatal(err, "Creating recorder service failed")
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "RunExtension")
	err = recorderService.Run(ctx, inputs)
	span.Finish()
	if err != nil {
		closer.Close()
		fatalHandler.HandleFatal(err, "Recording image tag failed")
	}

	log.Info().Msgf("Finished recording image tag %v", inputs.ImageTag)
}

// initJaeger returns an instance of Jaeger Tracer that can be configured with environment variables
// https://github.com/jaegertracing/jaeger-client-go#environment-variables
func initJaeger(service string) io.Closer {

	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Generating Jaeger config from environment variables failed")
	}

	closer, err := cfg.InitGlobalTracer(service, jaegercfg.Logger(jaeger.StdLogger))

	if err != nil {
		log.Fatal().Err(err).Msg("Generating Jaeger tracer failed")
	}

	return closer
}
