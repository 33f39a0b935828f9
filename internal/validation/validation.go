package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate

	subdomainRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{1,61}[a-z0-9])$`)
	hexColorRe  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
			return subdomainRe.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("hexcolor_or_empty", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || hexColorRe.MatchString(s)
		})
	})
	return validate
}

// Struct validates s against its `validate` tags and flattens the
// field errors into a single readable error.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}

// IsSubdomain reports whether s is usable as a platform subdomain label.
func IsSubdomain(s string) bool {
	return subdomainRe.MatchString(s)
}
