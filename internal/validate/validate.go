package validate

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/andradm/Journal-project/internal/repo"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
)

// DateLayout is the accepted entry date format, MM/DD/YYYY.
const DateLayout = "01/02/2006"

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var v = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return v
}

// RegisterInput holds the raw registration form fields.
type RegisterInput struct {
	Username  string `form:"username" validate:"required,username"`
	Email     string `form:"email" validate:"required,email"`
	Password  string `form:"password" validate:"required,min=2,eqfield=Password2"`
	Password2 string `form:"password2" validate:"required"`
}

// LoginInput holds the raw login form fields.
type LoginInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// EntryInput holds the raw entry form fields. All are required; Date must
// match DateLayout. A zero TimeSpent counts as missing.
type EntryInput struct {
	Title     string `form:"title" validate:"required,max=200"`
	TimeSpent int    `form:"time_spent" validate:"required"`
	Content   string `form:"content" validate:"required"`
	Resources string `form:"resources" validate:"required"`
	Date      string `form:"date" validate:"required"`
}

// Register runs the declarative rules, then the state-dependent uniqueness
// rules against current committed state. The returned error is an
// infrastructure failure, not a validation outcome.
func Register(ctx context.Context, users repo.UserRepo, in RegisterInput) ([]FieldError, error) {
	errs := run(in)
	if !hasField(errs, "username") {
		if _, err := users.GetByUsername(ctx, in.Username); err == nil {
			errs = append(errs, FieldError{Field: "username", Message: "User with this name already exists."})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	if !hasField(errs, "email") {
		if _, err := users.GetByEmail(ctx, in.Email); err == nil {
			errs = append(errs, FieldError{Field: "email", Message: "User with this email already exists."})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	return errs, nil
}

// Login checks the login form fields. Existence of the account is deliberately
// not checked here; a mismatch is reported generically at login time.
func Login(in LoginInput) []FieldError {
	return run(in)
}

// Entry checks the entry form fields and parses the date. The returned date is
// only meaningful when the error list is empty.
func Entry(in EntryInput) (time.Time, []FieldError) {
	errs := run(in)
	var date time.Time
	if in.Date != "" {
		d, err := time.Parse(DateLayout, in.Date)
		if err != nil {
			errs = append(errs, FieldError{Field: "date", Message: "Date must be in MM/DD/YYYY format."})
		} else {
			date = d
		}
	}
	return date, errs
}

func run(in any) []FieldError {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: "invalid input"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "username":
		return "Username should be one word, letters, numbers and underscores only."
	case "email":
		return "Invalid email address."
	case "min":
		return "Field must be at least " + fe.Param() + " characters long."
	case "max":
		return "Field must be at most " + fe.Param() + " characters long."
	case "eqfield":
		return "Passwords must match."
	}
	return "Invalid value."
}

func hasField(errs []FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
