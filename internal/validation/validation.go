// Package validation wraps go-playground/validator with English messages.
//
// Checks run as explicit stages so the first failing rule decides the error
// regardless of field order: presence first, then length, then format.
package validation

import (
	"errors"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

// MinCredentialLength applies to emails and passwords alike.
const MinCredentialLength = 3

type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

func New() *Validator {
	v := validator.New()

	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")
	// only fails on duplicate registration
	_ = entrans.RegisterDefaultTranslations(v, trans)

	return &Validator{v: v, trans: trans}
}

// Field is one named value under validation.
type Field struct {
	Name  string
	Value string
}

// Required fails with missing_field on the first empty field.
func (x *Validator) Required(fields ...Field) error {
	for _, f := range fields {
		if err := x.v.Var(f.Value, "required"); err != nil {
			return domain.ErrMissingField(f.Name)
		}
	}
	return nil
}

// MinLength fails with invalid_field on the first field shorter than MinCredentialLength.
func (x *Validator) MinLength(fields ...Field) error {
	for _, f := range fields {
		if err := x.v.Var(f.Value, "min="+strconv.Itoa(MinCredentialLength)); err != nil {
			return domain.ErrInvalidField(f.Name, x.reason(f.Name, err))
		}
	}
	return nil
}

func (x *Validator) Email(email string) error {
	if err := x.v.Var(email, "email"); err != nil {
		return domain.ErrInvalidEmail(email)
	}
	return nil
}

var grantableRoleTag = "required,oneof=" + domain.RoleAdmin.String() + " " + domain.RoleEmployee.String()

// GrantableRole accepts only the roles a whitelist entry may carry.
func (x *Validator) GrantableRole(role string) error {
	if err := x.v.Var(role, grantableRoleTag); err != nil {
		return domain.ErrInvalidRole(role)
	}
	return nil
}

// reason renders the first validator failure as an English sentence naming field.
func (x *Validator) reason(field string, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid"
	}
	// Var() has no struct field name; the translation starts with an empty name.
	return field + verrs[0].Translate(x.trans)
}
