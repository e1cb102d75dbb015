package spaces

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// defaultPhoneRegion is assumed when a phone number has no country prefix.
const defaultPhoneRegion = "US"

// LoginForm is the structured login form state.
type LoginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (f LoginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(
			&f.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&f.Password,
			validation.Required,
		),
	)
}

// Credentials converts the form into the login payload.
func (f LoginForm) Credentials() Credentials {
	return Credentials{
		Email:    normalizeEmail(f.Email),
		Password: f.Password,
	}
}

// RegisterForm is the structured registration form state. Role arrives as
// the raw string from the role picker and is canonicalized by Normalize.
type RegisterForm struct {
	FirstName       string `form:"first_name" json:"first_name"`
	LastName        string `form:"last_name" json:"last_name"`
	Email           string `form:"email" json:"email"`
	Phone           string `form:"phone_number" json:"phone_number"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
	Role            string `form:"role" json:"role"`
}

// Validate will validate the payload
func (f RegisterForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&f.Phone, validation.By(validatePhone)),
		validation.Field(&f.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&f.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(f.Password)),
		),
		validation.Field(&f.Role, validation.By(validateRawRole)),
	)
}

// Normalize returns a copy normalized at the trust boundary: email
// lowercased, role clamped to the closed enumeration, and the phone number
// formatted to E.164 when it parses.
func (f RegisterForm) Normalize() RegisterForm {
	f.Email = normalizeEmail(f.Email)
	f.Role = string(NormalizeRole(f.Role))

	if f.Phone != "" {
		if parsed, err := phonenumbers.Parse(f.Phone, defaultPhoneRegion); err == nil {
			f.Phone = phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}

	return f
}

// Registration converts the normalized form into the registration payload.
func (f RegisterForm) Registration() Registration {
	normalized := f.Normalize()
	return Registration{
		Email:     normalized.Email,
		Password:  normalized.Password,
		FirstName: normalized.FirstName,
		LastName:  normalized.LastName,
		Phone:     normalized.Phone,
		Role:      Role(normalized.Role),
	}
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

func validateRawRole(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	if _, ok := ParseRole(raw); !ok {
		return errors.New("must be a valid role")
	}
	return nil
}

func validatePhone(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	parsed, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return errors.New("must be a valid phone number")
	}
	if !phonenumbers.IsPossibleNumber(parsed) {
		return errors.New("must be a valid phone number")
	}
	return nil
}

// FormatValidationErrors flattens an ozzo validation error into a field
// name to message mapping for form rendering.
func FormatValidationErrors(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var fieldErrors validation.Errors
	if errors.As(err, &fieldErrors) {
		for field, fieldErr := range fieldErrors {
			if fieldErr != nil {
				out[field] = fieldErr.Error()
			}
		}
		return out
	}

	out["form"] = err.Error()
	return out
}
