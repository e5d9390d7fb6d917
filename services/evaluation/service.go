package evaluation

import (
	"context"
	"errors"

	"github.com/Knetic/govaluate"
	"github.com/estafette/estafette-extension-image-record/config"
	"github.com/rs/zerolog/log"
)

// Service evaluates the when clause from the configuration
//go:generate mockgen -package=evaluation -destination ./mock.go -source=service.go
type Service interface {
	Evaluate(string, map[string]interface{}) (bool, error)
	GetParameters(config.StepInputs, config.Configuration) map[string]interface{}
}

// NewService returns a new evaluation.Service
func NewService(ctx context.Context) (Service, error) {
	return &service{}, nil
}

type service struct {
}

func (s *service) Evaluate(input string, parameters map[string]interface{}) (result bool, err error) {

	if input == "" {
		return false, errors.New("When expression is empty")
	}

	log.Info().Msgf("Evaluating when expression \"%v\" with parameters \"%v\"", input, parameters)

	expression, err := govaluate.NewEvaluableExpression(input)
	if err != nil {
		return
	}

	r, err := expression.Evaluate(parameters)
	if err != nil {
		return
	}

	log.Info().Msgf("Result of when expression \"%v\" is \"%v\"", input, r)

	if result, ok := r.(bool); ok {
		return result, err
	}

	return false, errors.New("Result of evaluating when expression is not of type boolean")
}

func (s *service) GetParameters(inputs config.StepInputs, configuration config.Configuration) map[string]interface{} {

	parameters := make(map[string]interface{}, 4)
	parameters["tag"] = inputs.ImageTag
	parameters["branch"] = inputs.GitBranch
	parameters["repo"] = configuration.RepoName
	parameters["target"] = configuration.BranchNameOrDefault()

	return parameters
}
