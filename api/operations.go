package api

// Operation names one backend call. Every request type maps to exactly
// one operation; the dispatcher resolves it to a method, path, header set
// and body encoding through the request's spec.
type Operation int

const (
	OpSignIn Operation = iota
	OpSignUp
	OpLogout
	OpRecipeList
	OpMyRecipes
	OpOneRecipe
	OpAddRating
	OpSavedRecipe
	OpForgotPassword
	OpPasswordConfirm
	OpFollow
	OpUserProfiles
	OpRecipeImage
	OpAddRecipe
	OpOneUser
	OpUpdateProfile
	OpSendMessage
	OpGetChat
	OpVerifyOTP
	OpResendOTP
)

var operationNames = map[Operation]string{
	OpSignIn:          "signIn",
	OpSignUp:          "signUp",
	OpLogout:          "logout",
	OpRecipeList:      "recipeList",
	OpMyRecipes:       "myRecipe",
	OpOneRecipe:       "oneRecipe",
	OpAddRating:       "addRating",
	OpSavedRecipe:     "savedRecipe",
	OpForgotPassword:  "forgotPassword",
	OpPasswordConfirm: "passwordConfirmation",
	OpFollow:          "followClick",
	OpUserProfiles:    "userProfile",
	OpRecipeImage:     "recipeImage",
	OpAddRecipe:       "addRecipe",
	OpOneUser:         "oneUser",
	OpUpdateProfile:   "updateProfile",
	OpSendMessage:     "message",
	OpGetChat:         "getChat",
	OpVerifyOTP:       "verifyOTP",
	OpResendOTP:       "resendOTP",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "unknown"
}
