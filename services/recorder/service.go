package recorder

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/estafette/estafette-extension-image-record/config"
	"github.com/estafette/estafette-extension-image-record/pkg/records"
	"github.com/estafette/estafette-extension-image-record/services/evaluation"
	"github.com/estafette/estafette-extension-image-record/services/repository"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RepositoryServiceFactory returns a repository.Service acting with the given token
type RepositoryServiceFactory func(token string) (repository.Service, error)

// Service records a published image tag in the target repository
type Service interface {
	Run(ctx context.Context, inputs config.StepInputs) (err error)
}

// NewService returns a new recorder.Service
func NewService(ctx context.Context, repositoryServiceFactory RepositoryServiceFactory, evaluationService evaluation.Service, now func() time.Time, output io.Writer) (Service, error) {
	if now == nil {
		now = time.Now
	}
	return &service{
		repositoryServiceFactory: repositoryServiceFactory,
		evaluationService:        evaluationService,
		now:                      now,
		output:                   output,
	}, nil
}

type service struct {
	repositoryServiceFactory RepositoryServiceFactory
	evaluationService        evaluation.Service
	now                      func() time.Time
	output                   io.Writer
}

func (s *service) Run(ctx context.Context, inputs config.StepInputs) (err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "RecordImageTag")
	defer span.Finish()
	span.SetTag("tag", inputs.ImageTag)

	if err = inputs.Validate(); err != nil {
		return
	}

	sourceRepository, err := s.repositoryServiceFactory(inputs.RepoToken)
	if err != nil {
		return errors.Wrap(err, "Failed creating client for repo-token")
	}
	targetRepository, err := s.repositoryServiceFactory(inputs.TargetToken)
	if err != nil {
		return errors.Wrap(err, "Failed creating client for target-token")
	}

	configuration, err := s.readConfiguration(ctx, sourceRepository, inputs)
	if err != nil {
		return
	}

	if configuration.When != "" {
		var proceed bool
		proceed, err = s.evaluationService.Evaluate(configuration.When, s.evaluationService.GetParameters(inputs, configuration))
		if err != nil {
			return &config.ConfigurationError{Key: "when", Reason: fmt.Sprintf("can't be evaluated: %v", err)}
		}
		if !proceed {
			log.Info().Msgf("Skipping record of image tag %v, when expression \"%v\" is false", inputs.ImageTag, configuration.When)
			return nil
		}
	}

	// read record-file at the commit the new commit will be based on, so a concurrent update makes the commit fail instead of getting lost;
	// read it with the identity that writes it, a token that can't see the target repository would otherwise start an empty list
	head, err := targetRepository.ResolveBranch(ctx, configuration.RepoName, configuration.BranchNameOrDefault())
	if err != nil {
		return
	}

	recordContent, err := targetRepository.FetchContent(ctx, configuration.RepoName, configuration.RecordFile, head.SHA)
	if err != nil {
		return errors.Wrapf(err, "Failed fetching record file %v", configuration.RecordFile)
	}
	if !recordContent.Found {
		log.Info().Msgf("Record file %v does not exist yet in %v, starting a new one", configuration.RecordFile, configuration.RepoName)
	}

	imageRecords, err := records.Parse(recordContent.Text)
	if err != nil {
		return
	}

	updatedImageRecords := records.Merge(imageRecords, inputs.ImageTag, s.now())

	recordFileContents, err := records.Marshal(updatedImageRecords)
	if err != nil {
		return
	}
	summary := records.RenderSummary(updatedImageRecords)

	commit, err := targetRepository.CommitFiles(ctx,
		configuration.RepoName,
		head,
		fmt.Sprintf("Update info for %v", inputs.ImageTag),
		map[string]string{
			configuration.RecordFile: recordFileContents,
			configuration.OutputFile: summary,
		})
	if err != nil {
		return
	}

	log.Info().Msgf("Recorded image tag %v in %v on branch %v with commit %v", inputs.ImageTag, configuration.RepoName, configuration.BranchNameOrDefault(), commit.SHA)

	if s.output != nil {
		records.RenderTable(s.output, updatedImageRecords, inputs.ImageTag)
	}

	if inputs.PullRequestNumber > 0 {
		err = sourceRepository.UpsertPullRequestComment(ctx, inputs.SourceRepoFullName(), inputs.PullRequestNumber, records.SummaryHeader, summary)
		if err != nil {
			return errors.Wrapf(err, "Failed commenting on pull request %v", inputs.PullRequestNumber)
		}
	}

	return nil
}

func (s *service) readConfiguration(ctx context.Context, sourceRepository repository.Service, inputs config.StepInputs) (configuration config.Configuration, err error) {

	sourceRepo := inputs.SourceRepoFullName()

	content, err := sourceRepository.FetchContent(ctx, sourceRepo, inputs.ConfigurationPath, "")
	if err != nil {
		return configuration, errors.Wrapf(err, "Failed fetching configuration %v", inputs.ConfigurationPath)
	}
	if !content.Found {
		return configuration, &config.ConfigurationError{Reason: fmt.Sprintf("configuration file %v does not exist in %v", inputs.ConfigurationPath, sourceRepo)}
	}

	configuration, err = config.ParseConfiguration(content.Text)
	if err != nil {
		return
	}

	log.Info().Msgf("Read configuration %v: repo-name=%v output-file=%v record-file=%v branch-name=%v", inputs.ConfigurationPath, configuration.RepoName, configuration.OutputFile, configuration.RecordFile, configuration.BranchNameOrDefault())

	return configuration, nil
}
