// Package validation checks component instances and configuration values.
//
// # Dependency Check
//
// Components whose descriptor enables the dependency check are validated
// with struct tags after their properties are applied:
//
//	type Mailer struct {
//	    Transport Transport `validate:"required"`
//	    From      string    `validate:"required,email" di:"from"`
//	}
//	violations := validation.Default().Check(mailer)
//
// Field names in violations use the `di` tag, then the `json` tag, then the
// snake_cased field name, so they line up with descriptor property names.
//
// # Programmatic Rules
//
//	r := validation.NewRules()
//	r.Required("name", cfg.Name).Range("max_parent_depth", cfg.MaxParentDepth, 1, 256)
//	err := r.Validate()
package validation
