// Package validation holds the client-side field rules. Validate is pure:
// identical inputs always yield identical messages, and an empty message
// means the field is valid. Callers run it on every change for live
// feedback and once more on submit as the authoritative gate.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Field names a validated form field.
type Field string

const (
	FieldName            Field = "name"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
	FieldRecipeTitle     Field = "recipeTitle"
	FieldIngredients     Field = "ingredients"
	FieldPrepSteps       Field = "preparationSteps"
	FieldPrepTime        Field = "preparationTime"
	FieldCookingTime     Field = "cookingTime"
	FieldImageURL        Field = "imageUrl"
	FieldBio             Field = "bio"
	FieldFavouriteRecipe Field = "favouriteRecipe"
)

// Validation messages shown to the user.
const (
	MsgInvalidName            = "Name can only contain letters and spaces."
	MsgInvalidNameLength      = "Name should be greater than 2 and less than 50 characters."
	MsgInvalidEmail           = "Please enter a valid email address."
	MsgInvalidPassword        = "Password must be 8-50 characters long, with at least one number, uppercase letter, lowercase letter, and special character."
	MsgInvalidConfirmPassword = "Confirm Password must be same"
	MsgTitleRequired          = "Recipe title is required."
	MsgTitleTooLong           = "Recipe title is too long."
	MsgIngredientsRequired    = "Ingredients are required."
	MsgStepsRequired          = "Preparation steps are required."
	MsgPrepTimeRequired       = "Preparation time is required."
	MsgCookingTimeRequired    = "Cooking time is required."
	MsgImageRequired          = "Image is required."
	MsgBioTooLong             = "Bio is too long."
	MsgFavouriteTooLong       = "Recipe name is too long."
)

// Form carries sibling state needed by cross-field rules.
type Form struct {
	Password string
}

var (
	nameRE  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const passwordSymbols = "!@#$%^&*"

// Validate checks one field and returns an error message, or "" when the
// value is valid. Unknown fields are treated as valid.
func Validate(field Field, value string, form Form) string {
	switch field {
	case FieldName:
		if !nameRE.MatchString(value) {
			return MsgInvalidName
		}
		if n := len([]rune(value)); n < 2 || n > 50 {
			return MsgInvalidNameLength
		}
		return ""
	case FieldEmail:
		if !emailRE.MatchString(value) {
			return MsgInvalidEmail
		}
		return ""
	case FieldPassword:
		if !validPassword(value) {
			return MsgInvalidPassword
		}
		return ""
	case FieldConfirmPassword:
		if value != form.Password {
			return MsgInvalidConfirmPassword
		}
		return ""
	case FieldRecipeTitle:
		if value == "" {
			return MsgTitleRequired
		}
		if len([]rune(value)) > 100 {
			return MsgTitleTooLong
		}
		return ""
	case FieldIngredients:
		if value == "" {
			return MsgIngredientsRequired
		}
		return ""
	case FieldPrepSteps:
		if value == "" {
			return MsgStepsRequired
		}
		return ""
	case FieldPrepTime:
		if value == "" {
			return MsgPrepTimeRequired
		}
		return ""
	case FieldCookingTime:
		if value == "" {
			return MsgCookingTimeRequired
		}
		return ""
	case FieldImageURL:
		if value == "" {
			return MsgImageRequired
		}
		return ""
	case FieldBio:
		if len([]rune(value)) > 500 {
			return MsgBioTooLong
		}
		return ""
	case FieldFavouriteRecipe:
		if len([]rune(value)) > 100 {
			return MsgFavouriteTooLong
		}
		return ""
	default:
		return ""
	}
}

// ValidateAll checks every field in values and returns the messages for
// the ones that failed. An empty map means the form may be submitted.
func ValidateAll(values map[Field]string, form Form) map[Field]string {
	failed := make(map[Field]string)
	for field, value := range values {
		if msg := Validate(field, value, form); msg != "" {
			failed[field] = msg
		}
	}
	return failed
}

// validPassword requires 8-50 characters with at least one uppercase
// letter, one lowercase letter, one digit and one of !@#$%^&*.
func validPassword(p string) bool {
	runes := []rune(p)
	if len(runes) < 8 || len(runes) > 50 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
