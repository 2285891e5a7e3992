package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foodieshq/foodies-client/validation"
)

func TestValidate_Name(t *testing.T) {
	t.Run("valid name", func(t *testing.T) {
		require.Empty(t, validation.Validate(validation.FieldName, "Jane Doe", validation.Form{}))
	})

	t.Run("digits are rejected before length", func(t *testing.T) {
		msg := validation.Validate(validation.FieldName, "J4ne", validation.Form{})
		require.Equal(t, validation.MsgInvalidName, msg)
	})

	t.Run("pattern failure takes precedence over length", func(t *testing.T) {
		// One character AND an illegal symbol: the pattern message wins.
		msg := validation.Validate(validation.FieldName, "!", validation.Form{})
		require.Equal(t, validation.MsgInvalidName, msg)
	})

	t.Run("single letter fails length", func(t *testing.T) {
		msg := validation.Validate(validation.FieldName, "J", validation.Form{})
		require.Equal(t, validation.MsgInvalidNameLength, msg)
	})

	t.Run("51 letters fail length", func(t *testing.T) {
		msg := validation.Validate(validation.FieldName, strings.Repeat("a", 51), validation.Form{})
		require.Equal(t, validation.MsgInvalidNameLength, msg)
	})

	t.Run("empty fails pattern", func(t *testing.T) {
		msg := validation.Validate(validation.FieldName, "", validation.Form{})
		require.Equal(t, validation.MsgInvalidName, msg)
	})
}

func TestValidate_Email(t *testing.T) {
	valid := []string{"a@b.co", "user.name@example.com", "x+y@sub.domain.org"}
	for _, email := range valid {
		require.Empty(t, validation.Validate(validation.FieldEmail, email, validation.Form{}), email)
	}

	invalid := []string{"", "userexample.com", "user@", "@example.com", "a b@c.de", "user@domain"}
	for _, email := range invalid {
		require.Equal(t, validation.MsgInvalidEmail,
			validation.Validate(validation.FieldEmail, email, validation.Form{}), email)
	}
}

func TestValidate_Password(t *testing.T) {
	t.Run("valid password", func(t *testing.T) {
		require.Empty(t, validation.Validate(validation.FieldPassword, "Abcdef1!", validation.Form{}))
	})

	t.Run("empty is invalid", func(t *testing.T) {
		require.Equal(t, validation.MsgInvalidPassword,
			validation.Validate(validation.FieldPassword, "", validation.Form{}))
	})

	t.Run("missing classes", func(t *testing.T) {
		for _, p := range []string{
			"abcdef1!",  // no uppercase
			"ABCDEF1!",  // no lowercase
			"Abcdefg!",  // no digit
			"Abcdefg1",  // no symbol
			"Ab1!",      // too short
			"Ab1!" + strings.Repeat("x", 47), // 51 chars
		} {
			require.Equal(t, validation.MsgInvalidPassword,
				validation.Validate(validation.FieldPassword, p, validation.Form{}), p)
		}
	})

	t.Run("boundary lengths", func(t *testing.T) {
		// 8 characters exactly.
		require.Empty(t, validation.Validate(validation.FieldPassword, "Aa1!aaaa", validation.Form{}))
		// 50 characters exactly.
		p := "Aa1!" + strings.Repeat("a", 46)
		require.Empty(t, validation.Validate(validation.FieldPassword, p, validation.Form{}))
	})

	t.Run("every required symbol is accepted", func(t *testing.T) {
		for _, sym := range "!@#$%^&*" {
			p := "Aa1aaaa" + string(sym)
			require.Empty(t, validation.Validate(validation.FieldPassword, p, validation.Form{}), p)
		}
	})
}

func TestValidate_ConfirmPassword(t *testing.T) {
	form := validation.Form{Password: "Abcdef1!"}

	t.Run("match", func(t *testing.T) {
		require.Empty(t, validation.Validate(validation.FieldConfirmPassword, "Abcdef1!", form))
	})

	t.Run("mismatch", func(t *testing.T) {
		require.Equal(t, validation.MsgInvalidConfirmPassword,
			validation.Validate(validation.FieldConfirmPassword, "different", form))
	})
}

func TestValidate_RecipeFields(t *testing.T) {
	t.Run("required fields reject empty", func(t *testing.T) {
		cases := map[validation.Field]string{
			validation.FieldRecipeTitle: validation.MsgTitleRequired,
			validation.FieldIngredients: validation.MsgIngredientsRequired,
			validation.FieldPrepSteps:   validation.MsgStepsRequired,
			validation.FieldPrepTime:    validation.MsgPrepTimeRequired,
			validation.FieldCookingTime: validation.MsgCookingTimeRequired,
			validation.FieldImageURL:    validation.MsgImageRequired,
		}
		for field, want := range cases {
			require.Equal(t, want, validation.Validate(field, "", validation.Form{}), field)
			require.Empty(t, validation.Validate(field, "x", validation.Form{}), field)
		}
	})

	t.Run("title length cap", func(t *testing.T) {
		require.Empty(t, validation.Validate(validation.FieldRecipeTitle, strings.Repeat("t", 100), validation.Form{}))
		require.Equal(t, validation.MsgTitleTooLong,
			validation.Validate(validation.FieldRecipeTitle, strings.Repeat("t", 101), validation.Form{}))
	})

	t.Run("bio and favourite caps allow empty", func(t *testing.T) {
		require.Empty(t, validation.Validate(validation.FieldBio, "", validation.Form{}))
		require.Empty(t, validation.Validate(validation.FieldBio, strings.Repeat("b", 500), validation.Form{}))
		require.Equal(t, validation.MsgBioTooLong,
			validation.Validate(validation.FieldBio, strings.Repeat("b", 501), validation.Form{}))

		require.Empty(t, validation.Validate(validation.FieldFavouriteRecipe, strings.Repeat("f", 100), validation.Form{}))
		require.Equal(t, validation.MsgFavouriteTooLong,
			validation.Validate(validation.FieldFavouriteRecipe, strings.Repeat("f", 101), validation.Form{}))
	})
}

func TestValidate_Idempotent(t *testing.T) {
	inputs := []struct {
		field validation.Field
		value string
	}{
		{validation.FieldName, "J4ne"},
		{validation.FieldEmail, "nope"},
		{validation.FieldPassword, "Abcdef1!"},
		{validation.FieldRecipeTitle, ""},
	}
	for _, in := range inputs {
		first := validation.Validate(in.field, in.value, validation.Form{})
		second := validation.Validate(in.field, in.value, validation.Form{})
		require.Equal(t, first, second)
	}
}

func TestValidateAll(t *testing.T) {
	t.Run("clean form yields no errors", func(t *testing.T) {
		failed := validation.ValidateAll(map[validation.Field]string{
			validation.FieldName:  "Jane Doe",
			validation.FieldEmail: "jane@example.com",
		}, validation.Form{})
		require.Empty(t, failed)
	})

	t.Run("only failing fields are reported", func(t *testing.T) {
		failed := validation.ValidateAll(map[validation.Field]string{
			validation.FieldName:  "Jane Doe",
			validation.FieldEmail: "broken",
		}, validation.Form{})
		require.Len(t, failed, 1)
		require.Equal(t, validation.MsgInvalidEmail, failed[validation.FieldEmail])
	})
}
