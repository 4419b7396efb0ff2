package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	forgeerrors "github.com/alexisbeaulieu97/fsforge/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
)

// knownStates is the closed set of item states the engine dispatches on.
var knownStates = map[string]struct{}{
	"copy":        {},
	"directory":   {},
	"exists":      {},
	"touch":       {},
	"absent":      {},
	"link":        {},
	"hard":        {},
	"lineinfile":  {},
	"blockinfile": {},
}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateManifest performs schema and per-item enum validation. Field-level
// semantics (mutual exclusions, state-specific requirements) are enforced by
// the resolver, which sees the merged values.
func ValidateManifest(manifest *Manifest) error {
	if manifest == nil {
		return forgeerrors.NewValidationError("manifest", "manifest is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(manifest); err != nil {
		return convertValidationError(err)
	}

	if err := validateParams("defaults", &manifest.Defaults); err != nil {
		return err
	}

	for i := range manifest.Items {
		item := &manifest.Items[i]
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(item.Dest) == "" {
			return forgeerrors.NewValidationError(field+".dest", "dest is required", nil)
		}
		if err := validateParams(field, &item.Params); err != nil {
			return err
		}
	}

	return nil
}

func validateParams(field string, p *Params) error {
	if p.State != nil {
		if _, ok := knownStates[*p.State]; !ok {
			return forgeerrors.NewValidationError(field+".state", fmt.Sprintf("unknown state %q", *p.State), nil)
		}
	}
	if err := validateChoice(field+".on_error", p.OnError, "fail", "continue"); err != nil {
		return err
	}
	if err := validateChoice(field+".line_state", p.LineState, "present", "absent"); err != nil {
		return err
	}
	if err := validateChoice(field+".block_state", p.BlockState, "present", "absent"); err != nil {
		return err
	}
	return nil
}

func validateChoice(field string, value *string, choices ...string) error {
	if value == nil {
		return nil
	}
	for _, choice := range choices {
		if *value == choice {
			return nil
		}
	}
	return forgeerrors.NewValidationError(field, fmt.Sprintf("must be one of: %s", strings.Join(choices, ", ")), nil)
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if ok := asInvalid(err, &invalid); ok {
		return forgeerrors.NewValidationError("manifest", invalid.Error(), err)
	}

	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return forgeerrors.NewValidationError(
			strings.ToLower(first.Namespace()),
			fmt.Sprintf("failed %q constraint", first.Tag()),
			err,
		)
	}

	return forgeerrors.NewValidationError("manifest", err.Error(), err)
}

func asInvalid(err error, target **validator.InvalidValidationError) bool {
	invalid, ok := err.(*validator.InvalidValidationError)
	if !ok {
		return false
	}
	*target = invalid
	return true
}
