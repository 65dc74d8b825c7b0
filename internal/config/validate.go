package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/mmr-tortoise/tarkov-build/internal/model"
)

// containerNameRegex matches names accepted by `docker run --name`.
var containerNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// buildArgKeyRegex matches valid --build-arg keys (shell variable names).
var buildArgKeyRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var configValidator = validator.New()

// Validate checks the settings and reports every problem at once.
// The returned error is a *multierror.Error when more than one check fails.
//
// Nothing on disk is inspected: the build context and the build-definition
// file are left entirely to the build tool.
func Validate(cfg *Config) error {
	var result *multierror.Error

	if err := configValidator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				result = multierror.Append(result, describeFieldError(fe))
			}
		} else {
			result = multierror.Append(result, err)
		}
	}

	if cfg.Image != "" {
		if _, err := model.ParseImageRef(cfg.Image); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if cfg.Run.ContainerName != "" && !containerNameRegex.MatchString(cfg.Run.ContainerName) {
		result = multierror.Append(result, fmt.Errorf(
			"invalid container name %q: must start with an alphanumeric character and contain only [a-zA-Z0-9_.-]",
			cfg.Run.ContainerName))
	}

	for key := range cfg.BuildArgs {
		if !buildArgKeyRegex.MatchString(key) {
			result = multierror.Append(result, fmt.Errorf("invalid build arg name %q", key))
		}
	}

	return result.ErrorOrNil()
}

// describeFieldError turns a validator failure into a readable message
// naming the offending setting.
func describeFieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s must not be empty", fe.Namespace())
	case "oneof":
		return fmt.Errorf("%s: invalid value %v (valid: %s)", fe.Namespace(), fe.Value(), fe.Param())
	case "min", "max":
		return fmt.Errorf("%s: %v out of range (1-65535)", fe.Namespace(), fe.Value())
	default:
		return fmt.Errorf("%s: failed %q check", fe.Namespace(), fe.Tag())
	}
}
