package catalog

import (
	"fmt"

	"github.com/specialistvlad/viewparams/internal/convert"
)

// Configuration error kinds. All of them wrap convert.ErrConfiguration.
var (
	ErrAmbiguousType         = fmt.Errorf("%w: parameter type cannot be determined", convert.ErrConfiguration)
	ErrTypeMismatch          = fmt.Errorf("%w: parameter type does not match its property", convert.ErrConfiguration)
	ErrConverterMissing      = fmt.Errorf("%w: no converter for parameter type", convert.ErrConfiguration)
	ErrNonConvertibleDefault = fmt.Errorf("%w: default value cannot be decoded", convert.ErrConfiguration)
	ErrDuplicateParameter    = fmt.Errorf("%w: parameter declared twice", convert.ErrConfiguration)
)

// ConfigError locates a configuration problem on one parameter of one view.
type ConfigError struct {
	View   string
	Param  string
	Kind   error
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("view %q, parameter %q: %v", e.View, e.Param, e.Kind)
	}
	return fmt.Sprintf("view %q, parameter %q: %v: %s", e.View, e.Param, e.Kind, e.Detail)
}

func (e *ConfigError) Unwrap() error { return e.Kind }

func configError(def Definition, kind error, format string, args ...any) *ConfigError {
	return &ConfigError{
		View:   def.View,
		Param:  def.Name,
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}
