package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/foodieshq/foodies-client/session"
)

type bodyEncoding int

const (
	encodeNone bodyEncoding = iota
	encodeJSON
	encodeMultipart
)

// requestSpec is the resolved form of a request: everything the
// dispatcher needs to issue exactly one HTTP call. Specs are rebuilt per
// attempt so a retried request gets a fresh body reader.
type requestSpec struct {
	method        string
	path          string
	query         url.Values
	body          io.Reader
	encoding      bodyEncoding
	contentType   string
	authenticated bool
	headers       map[string]string
}

// Request is a typed operation payload. Each variant renders its own
// spec, which removes the per-branch field-presence checks a string-keyed
// dispatch would need.
type Request interface {
	Operation() Operation
	spec(sess session.Session) (requestSpec, error)
}

func jsonBody(v any) (io.Reader, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return bytes.NewReader(buf), nil
}

// ListFilters are the shared list-query parameters. Empty values are sent
// as empty query strings; the backend treats empty as "no filter".
type ListFilters struct {
	Page      int
	SearchKey string
	Rating    string
	PrepTime  string
	CookTime  string
}

func (f ListFilters) values() url.Values {
	v := url.Values{}
	v.Set("page", fmt.Sprintf("%d", f.Page))
	v.Set("searchKey", f.SearchKey)
	v.Set("ratingValue", f.Rating)
	v.Set("preparationTime", f.PrepTime)
	v.Set("cookingTime", f.CookTime)
	return v
}

// SignInRequest exchanges credentials for a session.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (SignInRequest) Operation() Operation { return OpSignIn }

func (r SignInRequest) spec(session.Session) (requestSpec, error) {
	body, err := jsonBody(r)
	if err != nil {
		return requestSpec{}, err
	}
	return requestSpec{method: http.MethodPost, path: "/auth/signin", body: body, encoding: encodeJSON}, nil
}

// SignUpRequest registers a new account and starts an OTP transaction.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (SignUpRequest) Operation() Operation { return OpSignUp }

func (r SignUpRequest) spec(session.Session) (requestSpec, error) {
	body, err := jsonBody(r)
	if err != nil {
		return requestSpec{}, err
	}
	return requestSpec{method: http.MethodPost, path: "/user", body: body, encoding: encodeJSON}, nil
}

// LogoutRequest invalidates the current session server-side. The tokens
// travel in headers, not the body.
type LogoutRequest struct{}

func (LogoutRequest) Operation() Operation { return OpLogout }

func (LogoutRequest) spec(sess session.Session) (requestSpec, error) {
	return requestSpec{
		method:        http.MethodPost,
		path:          "/auth/logout",
		authenticated: true,
		headers:       map[string]string{"refreshtoken": sess.RefreshToken},
	}, nil
}

// RecipeListRequest pages through the shared recipe feed. The explicit
// limit is only sent when no search key is present, matching the backend
// contract.
type RecipeListRequest struct {
	Filters ListFilters
}

func (RecipeListRequest) Operation() Operation { return OpRecipeList }

func (r RecipeListRequest) spec(session.Session) (requestSpec, error) {
	q := r.Filters.values()
	if r.Filters.SearchKey == "" {
		q.Set("limit", "20")
	}
	return requestSpec{method: http.MethodGet, path: "/recipe", query: q, authenticated: true}, nil
}

// MyRecipesRequest lists the caller's own recipes, or their favorites
// when the view-context flag is set.
type MyRecipesRequest struct {
	Filters   ListFilters
	Favorites bool
}

func (MyRecipesRequest) Operation() Operation { return OpMyRecipes }

func (r MyRecipesRequest) spec(sess session.Session) (requestSpec, error) {
	q := r.Filters.values()
	q.Set("limit", "20")
	path := "/favorites"
	if !r.Favorites {
		path = "/recipe"
		q.Set("creator", sess.UserID)
	}
	return requestSpec{method: http.MethodGet, path: path, query: q, authenticated: true}, nil
}

// OneRecipeRequest fetches a single recipe by id.
type OneRecipeRequest struct {
	RecipeID string
}

func (OneRecipeRequest) Operation() Operation { return OpOneRecipe }

func (r OneRecipeRequest) spec(session.Session) (requestSpec, error) {
	q := url.Values{}
	q.Set("_id", r.RecipeID)
	return requestSpec{method: http.MethodGet, path: "/recipe", query: q, authenticated: true}, nil
}

// AddRatingRequest submits a rating and review comment for a recipe.
type AddRatingRequest struct {
	RecipeID    string `json:"recipeId"`
	RatingValue int    `json:"ratingValue"`
	CommentText string `json:"commentText"`
}

func (AddRatingRequest) Operation() Operation { return OpAddRating }

func (r AddRatingRequest) spec(session.Session) (requestSpec, error) {
	body, err := jsonBody(r)
	if err != nil {
		return requestSpec{}, err
	}
	return requestSpec{method: http.MethodPost, path: "/recipefeedback", body: body, encoding: encodeJSON, authenticated: true}, nil
}

// SavedRecipeRequest toggles a recipe in the caller's favorites.
type SavedRecipeRequest struct {
	RecipeID string
	Add      bool
}

func (SavedRecipeRequest) Operation() Operation { return OpSavedRecipe }

func (r SavedRecipeRequest) spec(session.Session) (requestSpec, error) {
	q := url.Values{}
	q.Set("recipeId", r.RecipeID)
	q.Set("add", fmt.Sprintf("%t", r.Add))
	return requestSpec{method: http.MethodGet, path: "/user", query: q, authenticated: true}, nil
}

// ForgotPasswordRequest asks the backend to mail a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (ForgotPasswordRequest) Operation() Operation { return OpForgotPassword }

func (r ForgotPasswordRequest) spec(session.Session) (requestSpec, error) {
	body, err := jsonBody(r)
	if err != nil {
		return requestSpec{}, err
	}
	return requestSpec{method: http.MethodPost, path: "/password/sendEmail", body: body, encoding: encodeJSON}, nil
}

// PasswordConfirmRequest completes a password reset transaction.
type PasswordConfirmRequest struct {
	Password string `json:"password"`
	TxnID    string `json:"txnId"`
}

func (PasswordConfirmRequest) Operation() Operation { return OpPasswordConfirm }

func (r PasswordConfirmRequest) spec(session.Session) (requestSpec, error) {
	body, err := jsonBody(r)
	if err != nil {
		return requestSpec{}, err
	}
	return requestSpec{method: http.MethodPost, path: "/password/verify", body: body, encoding: encodeJSON}, nil
}

// FollowRequest follows or unfollows another user.
type FollowRequest struct {
	FollowerID   string `json:"followerId"`
	FollowedID   string `json:"followedId"`
	Follow       bool   `json:"follow"`
	UnfollowBody bool   `json:"unfollowBody"`
}

func (FollowRequest) Operation() Operation { return OpFollow }

func (r FollowRequest) spec(session.Session) (requestSpec, error) {
	body, err := jsonBody(r)
	if err != nil {
		return requestSpec{}, err
	}
	return requestSpec{method: http.MethodPost, path: "/follow", body: body, encoding: encodeJSON, authenticated: true}, nil
}

// ProfileKind selects which profile list a UserProfilesRequest fetches.
type ProfileKind string

const (
	ProfilesAllUsers  ProfileKind = "allUser"
	ProfilesFollowing ProfileKind = "following"
	ProfilesFollowers ProfileKind = "follower"
)

// UserProfilesRequest pages through followers, following or all users.
type UserProfilesRequest struct {
	Kind      ProfileKind
	Page      int
	SearchKey string
}

func (UserProfilesRequest) Operation() Operation { return OpUserProfiles }

func (r UserProfilesRequest) spec(session.Session) (requestSpec, error) {
	if r.Kind == "" {
		return requestSpec{}, fmt.Errorf("profile kind is required")
	}
	q := url.Values{}
	q.Set(string(r.Kind), "true")
	q.Set("limit", "20")
	q.Set("page", fmt.Sprintf("%d", r.Page))
	q.Set("searchKey", r.SearchKey)
	return requestSpec{method: http.MethodGet, path: "/user", query: q, authenticated: true}, nil
}

// UploadImageRequest pushes a recipe image through the backend's S3
// gateway as multipart form data. No JSON body, no auth headers.
type UploadImageRequest struct {
	FileName string
	Content  []byte
}

func (UploadImageRequest) Operation() Operation { return OpRecipeImage }

func (r UploadImageRequest) spec(session.Session) (requestSpec, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", r.FileName)
	if err != nil {
		return requestSpec{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(r.Content); err != nil {
		return requestSpec{}, fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return requestSpec{}, fmt.Errorf("close multipart writer: %w", err)
	}
	return requestSpec{
		method:      http.MethodPost,
		path:        "/getS3Url",
		body:        &buf,
		encoding:    encodeMultipart,
		contentType: w.FormDataContentType(),
	}, nil
}

// AddRecipeRequest creates a recipe.
type AddRecipeRequest struct {
	Title           string `json:"title"`
	Ingredients     string `json:"ingredients"`
	Steps           string `json:"steps"`
	Description     string `json:"description"`
	PreparationTime string `json:"preparationTime"`
	CookingTime     string `json:"cookingTime"`
	ImageURL        string `json:"imageUrl"`
	Creator         string `json:"creator"`
}

func (AddRecipeRequest) Operation() Operation { return OpAddRecipe }

func (r AddRecipeRequest) spec(sess session.Session) (requestSpec, error) {
	if r.Creator == "" {
		r.Creator = sess.UserID
	}
	body, err := jsonBody(r)
	if err != nil {
		return requestSpec{}, err
	}
	return requestSpec{method: http.MethodPost, path: "/recipe", body: body, encoding: encodeJSON, authenticated: true}, nil
}

// OneUserRequest fetches the caller's own profile.
type OneUserRequest struct{}

func (OneUserRequest) Operation() Operation { return OpOneUser }

func (OneUserRequest) spec(sess session.Session) (requestSpec, error) {
	q := url.Values{}
	q.Set("_id", sess.UserID)
	return requestSpec{method: http.MethodGet, path: "/user", query: q, authenticated: true}, nil
}

// UpdateProfileRequest sends only the fields the user changed.
type UpdateProfileRequest struct {
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	Password        string `json:"password,omitempty"`
	Bio             string `json:"bio,omitempty"`
	FavouriteRecipe string `json:"favouriteRecipe,omitempty"`
}

func (UpdateProfileRequest) Operation() Operation { return OpUpdateProfile }

func (r UpdateProfileRequest) spec(session.Session) (requestSpec, error) {
	body, err := jsonBody(r)
	if err != nil {
		return requestSpec{}, err
	}
	return requestSpec{method: http.MethodPut, path: "/update", body: body, encoding: encodeJSON, authenticated: true}, nil
}

// SendMessageRequest posts one chat message.
type SendMessageRequest struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
}

func (SendMessageRequest) Operation() Operation { return OpSendMessage }

func (r SendMessageRequest) spec(session.Session) (requestSpec, error) {
	body, err := jsonBody(r)
	if err != nil {
		return requestSpec{}, err
	}
	return requestSpec{method: http.MethodPost, path: "/send", body: body, encoding: encodeJSON, authenticated: true}, nil
}

// GetChatRequest fetches the conversation history between two users.
type GetChatRequest struct {
	Sender   string
	Receiver string
}

func (GetChatRequest) Operation() Operation { return OpGetChat }

func (r GetChatRequest) spec(session.Session) (requestSpec, error) {
	return requestSpec{
		method:        http.MethodGet,
		path:          fmt.Sprintf("/chat/%s/%s", url.PathEscape(r.Sender), url.PathEscape(r.Receiver)),
		authenticated: true,
	}, nil
}

// VerifyOTPRequest confirms the code mailed during signup.
type VerifyOTPRequest struct {
	OTP   string `json:"otp"`
	TxnID string `json:"txnId"`
}

func (VerifyOTPRequest) Operation() Operation { return OpVerifyOTP }

func (r VerifyOTPRequest) spec(session.Session) (requestSpec, error) {
	body, err := jsonBody(r)
	if err != nil {
		return requestSpec{}, err
	}
	return requestSpec{method: http.MethodPost, path: "/verify", body: body, encoding: encodeJSON}, nil
}

// ResendOTPRequest asks for a fresh signup code.
type ResendOTPRequest struct {
	TxnID string `json:"txnId"`
}

func (ResendOTPRequest) Operation() Operation { return OpResendOTP }

func (r ResendOTPRequest) spec(session.Session) (requestSpec, error) {
	body, err := jsonBody(r)
	if err != nil {
		return requestSpec{}, err
	}
	return requestSpec{method: http.MethodPost, path: "/resend", body: body, encoding: encodeJSON}, nil
}
