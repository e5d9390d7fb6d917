package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/estafette/estafette-extension-image-record/clients/github"
	"github.com/estafette/estafette-extension-image-record/config"
	"github.com/estafette/estafette-extension-image-record/services/evaluation"
	"github.com/estafette/estafette-extension-image-record/services/repository"
	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

var mainHead = github.BranchHead{Branch: "main", SHA: "head", Exists: true}

const configurationText = `repo-name: target
output-file: README.md
record-file: records.yaml
`

func TestRun(t *testing.T) {

	t.Run("CommitsUpdatedRecordFileAndSummaryToTargetRepository", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, targetMock, _, output := getServiceAndMocks(ctrl)

		sourceMock.EXPECT().FetchContent(gomock.Any(), "estafette/source", ".github/image-record.yaml", "").Return(repository.Content{Text: configurationText, Found: true}, nil)
		targetMock.EXPECT().ResolveBranch(gomock.Any(), "target", "main").Return(mainHead, nil)
		targetMock.EXPECT().FetchContent(gomock.Any(), "target", "records.yaml", "head").Return(repository.Content{Text: "- name: v0.9\n  date: Fri Dec 15 2023 10:00:00\n", Found: true}, nil)
		targetMock.EXPECT().CommitFiles(gomock.Any(), "target", mainHead, "Update info for v1.0", map[string]string{
			"records.yaml": "- name: v0.9\n  date: Fri Dec 15 2023 10:00:00\n- name: v1.0\n  date: Mon Jan 01 2024 13:04:05\n",
			"README.md":    "## Image Tag Publish Status\n| Tag | Publish Time |\n| :--- | :---: |\n| v0.9 | Fri Dec 15 2023 10:00:00 |\n| v1.0 | Mon Jan 01 2024 13:04:05 |\n",
		}).Return(github.Commit{SHA: "newcommit"}, nil)

		// act
		err := recorderService.Run(context.Background(), getInputs())

		assert.Nil(t, err)
		assert.Contains(t, output.String(), "v1.0")
	})

	t.Run("UpdatesExistingRecordInPlaceAndUsesConfiguredBranch", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, targetMock, _, _ := getServiceAndMocks(ctrl)

		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Text: configurationText + "branch-name: image-records\n", Found: true}, nil)
		newBranchHead := github.BranchHead{Branch: "image-records", SHA: "masterhead", Exists: false}
		targetMock.EXPECT().ResolveBranch(gomock.Any(), "target", "image-records").Return(newBranchHead, nil)
		targetMock.EXPECT().FetchContent(gomock.Any(), "target", "records.yaml", "masterhead").Return(repository.Content{Text: "- name: v1.0\n  date: Fri Dec 15 2023 10:00:00\n- name: v0.9\n  date: Fri Dec 08 2023 10:00:00\n", Found: true}, nil)
		targetMock.EXPECT().CommitFiles(gomock.Any(), "target", newBranchHead, "Update info for v1.0", gomock.Any()).DoAndReturn(func(ctx context.Context, repo string, head github.BranchHead, message string, files map[string]string) (github.Commit, error) {
			assert.Equal(t, "- name: v1.0\n  date: Mon Jan 01 2024 13:04:05\n- name: v0.9\n  date: Fri Dec 08 2023 10:00:00\n", files["records.yaml"])
			return github.Commit{SHA: "newcommit"}, nil
		})

		// act
		err := recorderService.Run(context.Background(), getInputs())

		assert.Nil(t, err)
	})

	t.Run("ReadsRecordFileWithTargetTokenSoHistoryIsKept", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, targetMock, _, _ := getServiceAndMocks(ctrl)

		// the source mock fails the test on any record file read
		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Text: configurationText, Found: true}, nil)
		targetMock.EXPECT().ResolveBranch(gomock.Any(), "target", "main").Return(mainHead, nil)
		targetMock.EXPECT().FetchContent(gomock.Any(), "target", "records.yaml", "head").Return(repository.Content{Text: "- name: v0.1\n  date: Fri Dec 01 2023 10:00:00\n- name: v0.2\n  date: Fri Dec 08 2023 10:00:00\n", Found: true}, nil)
		targetMock.EXPECT().CommitFiles(gomock.Any(), "target", mainHead, "Update info for v1.0", gomock.Any()).DoAndReturn(func(ctx context.Context, repo string, head github.BranchHead, message string, files map[string]string) (github.Commit, error) {
			assert.Equal(t, "- name: v0.1\n  date: Fri Dec 01 2023 10:00:00\n- name: v0.2\n  date: Fri Dec 08 2023 10:00:00\n- name: v1.0\n  date: Mon Jan 01 2024 13:04:05\n", files["records.yaml"])
			return github.Commit{SHA: "newcommit"}, nil
		})

		// act
		err := recorderService.Run(context.Background(), getInputs())

		assert.Nil(t, err)
	})

	t.Run("StartsNewRecordFileIfItDoesNotExist", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, targetMock, _, _ := getServiceAndMocks(ctrl)

		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Text: configurationText, Found: true}, nil)
		targetMock.EXPECT().ResolveBranch(gomock.Any(), "target", "main").Return(mainHead, nil)
		targetMock.EXPECT().FetchContent(gomock.Any(), "target", "records.yaml", "head").Return(repository.Content{Found: false}, nil)
		targetMock.EXPECT().CommitFiles(gomock.Any(), "target", mainHead, gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, repo string, head github.BranchHead, message string, files map[string]string) (github.Commit, error) {
			assert.Equal(t, "- name: v1.0\n  date: Mon Jan 01 2024 13:04:05\n", files["records.yaml"])
			return github.Commit{SHA: "newcommit"}, nil
		})

		// act
		err := recorderService.Run(context.Background(), getInputs())

		assert.Nil(t, err)
	})

	t.Run("TreatsEmptyRecordFileAsEmptyList", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, targetMock, _, _ := getServiceAndMocks(ctrl)

		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Text: configurationText, Found: true}, nil)
		targetMock.EXPECT().ResolveBranch(gomock.Any(), "target", "main").Return(mainHead, nil)
		targetMock.EXPECT().FetchContent(gomock.Any(), "target", "records.yaml", "head").Return(repository.Content{Text: "", Found: true}, nil)
		targetMock.EXPECT().CommitFiles(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(github.Commit{SHA: "newcommit"}, nil)

		// act
		err := recorderService.Run(context.Background(), getInputs())

		assert.Nil(t, err)
	})

	t.Run("ReturnsMissingInputErrorWithoutCallingApi", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, _, _, _, _ := getServiceAndMocks(ctrl)
		inputs := getInputs()
		inputs.TargetToken = ""

		// act
		err := recorderService.Run(context.Background(), inputs)

		var inputErr *config.MissingInputError
		if assert.True(t, errors.As(err, &inputErr)) {
			assert.Equal(t, "target-token", inputErr.Input)
		}
	})

	t.Run("ReturnsConfigurationErrorIfConfigurationFileDoesNotExist", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, _, _, _ := getServiceAndMocks(ctrl)

		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Found: false}, nil)

		// act
		err := recorderService.Run(context.Background(), getInputs())

		var configErr *config.ConfigurationError
		assert.True(t, errors.As(err, &configErr))
	})

	t.Run("ReturnsConfigurationErrorNamingMissingKey", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, _, _, _ := getServiceAndMocks(ctrl)

		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Text: "repo-name: target\noutput-file: README.md\n", Found: true}, nil)

		// act
		err := recorderService.Run(context.Background(), getInputs())

		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "record-file")
	})

	t.Run("ReturnsErrorIfFetchingRecordFileFails", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, targetMock, _, _ := getServiceAndMocks(ctrl)

		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Text: configurationText, Found: true}, nil)
		targetMock.EXPECT().ResolveBranch(gomock.Any(), "target", "main").Return(mainHead, nil)
		targetMock.EXPECT().FetchContent(gomock.Any(), "target", "records.yaml", "head").Return(repository.Content{}, fmt.Errorf("connection reset by peer"))

		// act
		err := recorderService.Run(context.Background(), getInputs())

		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "connection reset by peer")
	})

	t.Run("ReturnsErrorIfTargetBranchCannotBeResolved", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, targetMock, _, _ := getServiceAndMocks(ctrl)

		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Text: configurationText, Found: true}, nil)
		targetMock.EXPECT().ResolveBranch(gomock.Any(), "target", "main").Return(github.BranchHead{}, &github.APIError{StatusCode: 404, Message: "Not Found"})

		// act
		err := recorderService.Run(context.Background(), getInputs())

		assert.True(t, errors.Is(err, github.ErrNotFound))
	})

	t.Run("ReturnsErrorIfRecordFileIsNotAList", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, targetMock, _, _ := getServiceAndMocks(ctrl)

		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Text: configurationText, Found: true}, nil)
		targetMock.EXPECT().ResolveBranch(gomock.Any(), "target", "main").Return(mainHead, nil)
		targetMock.EXPECT().FetchContent(gomock.Any(), "target", "records.yaml", "head").Return(repository.Content{Text: "name: v1.0\n", Found: true}, nil)

		// act
		err := recorderService.Run(context.Background(), getInputs())

		assert.NotNil(t, err)
	})

	t.Run("ReturnsConflictErrorIfBranchMovedSinceRecordFileWasRead", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, targetMock, _, _ := getServiceAndMocks(ctrl)

		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Text: configurationText, Found: true}, nil)
		targetMock.EXPECT().ResolveBranch(gomock.Any(), "target", "main").Return(mainHead, nil)
		targetMock.EXPECT().FetchContent(gomock.Any(), "target", "records.yaml", "head").Return(repository.Content{Found: false}, nil)
		targetMock.EXPECT().CommitFiles(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(github.Commit{}, &github.APIError{StatusCode: 409, Message: "Conflict"})

		// act
		err := recorderService.Run(context.Background(), getInputs())

		assert.True(t, errors.Is(err, github.ErrConflict))
	})

	t.Run("SkipsCommitIfWhenExpressionIsFalse", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, _, evaluationMock, _ := getServiceAndMocks(ctrl)

		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Text: configurationText + "when: branch == 'main'\n", Found: true}, nil)
		evaluationMock.EXPECT().GetParameters(gomock.Any(), gomock.Any()).Return(map[string]interface{}{"branch": "feature-x"})
		evaluationMock.EXPECT().Evaluate("branch == 'main'", map[string]interface{}{"branch": "feature-x"}).Return(false, nil)

		// act
		err := recorderService.Run(context.Background(), getInputs())

		assert.Nil(t, err)
	})

	t.Run("ReturnsConfigurationErrorIfWhenExpressionCannotBeEvaluated", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, _, evaluationMock, _ := getServiceAndMocks(ctrl)

		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Text: configurationText + "when: branch ==\n", Found: true}, nil)
		evaluationMock.EXPECT().GetParameters(gomock.Any(), gomock.Any()).Return(map[string]interface{}{})
		evaluationMock.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(false, fmt.Errorf("Unexpected end of expression"))

		// act
		err := recorderService.Run(context.Background(), getInputs())

		var configErr *config.ConfigurationError
		if assert.True(t, errors.As(err, &configErr)) {
			assert.Equal(t, "when", configErr.Key)
		}
	})

	t.Run("CommentsSummaryOnPullRequestIfNumberIsSet", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		recorderService, sourceMock, targetMock, _, _ := getServiceAndMocks(ctrl)
		inputs := getInputs()
		inputs.PullRequestNumber = 5

		sourceMock.EXPECT().FetchContent(gomock.Any(), gomock.Any(), ".github/image-record.yaml", "").Return(repository.Content{Text: configurationText, Found: true}, nil)
		targetMock.EXPECT().ResolveBranch(gomock.Any(), "target", "main").Return(mainHead, nil)
		targetMock.EXPECT().FetchContent(gomock.Any(), "target", "records.yaml", "head").Return(repository.Content{Found: false}, nil)
		targetMock.EXPECT().CommitFiles(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(github.Commit{SHA: "newcommit"}, nil)
		sourceMock.EXPECT().UpsertPullRequestComment(gomock.Any(), "estafette/source", 5, "## Image Tag Publish Status\n", "## Image Tag Publish Status\n| Tag | Publish Time |\n| :--- | :---: |\n| v1.0 | Mon Jan 01 2024 13:04:05 |\n").Return(nil)

		// act
		err := recorderService.Run(context.Background(), inputs)

		assert.Nil(t, err)
	})
}

func getInputs() config.StepInputs {
	return config.StepInputs{
		RepoToken:         "source-token",
		ConfigurationPath: ".github/image-record.yaml",
		ImageTag:          "v1.0",
		TargetToken:       "target-token",
		SourceOwner:       "estafette",
		SourceRepo:        "source",
		GitBranch:         "main",
	}
}

func getServiceAndMocks(ctrl *gomock.Controller) (Service, *repository.MockService, *repository.MockService, *evaluation.MockService, *bytes.Buffer) {

	sourceMock := repository.NewMockService(ctrl)
	targetMock := repository.NewMockService(ctrl)
	evaluationMock := evaluation.NewMockService(ctrl)
	output := &bytes.Buffer{}

	factory := func(token string) (repository.Service, error) {
		switch token {
		case "source-token":
			return sourceMock, nil
		case "target-token":
			return targetMock, nil
		}
		return nil, fmt.Errorf("Unknown token %v", token)
	}

	now := func() time.Time {
		return time.Date(2024, time.January, 1, 13, 4, 5, 0, time.UTC)
	}

	recorderService, _ := NewService(context.Background(), factory, evaluationMock, now, output)

	return recorderService, sourceMock, targetMock, evaluationMock, output
}
