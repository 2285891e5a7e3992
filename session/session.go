// Package session owns the client's persisted authentication state:
// tokens, user identity, the pending signup/reset transaction and the
// navigation guard flags. Components depend on the Store service rather
// than reading storage keys directly.
package session

// Storage keys. These names are part of the persisted format and mirror
// what the backend expects in request headers.
const (
	KeyAccessToken      = "accesstoken"
	KeyRefreshToken     = "refreshtoken"
	KeyUserID           = "id"
	KeyUserName         = "name"
	KeyEmailPending     = "email"
	KeyTxnID            = "txnId"
	KeyLeavingReset     = "isLeavingPasswordPage"
	KeyLeavingOTP       = "isLeavingOTPPage"
	KeySelectedChatUser = "selectedChatUserId"
)

// Session is the authenticated state created on sign-in. At most one
// session exists at a time; Save replaces it wholesale.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	UserName     string
}

// PendingSignup tracks a signup or password-reset transaction between the
// submit step and the OTP/reset confirmation step.
type PendingSignup struct {
	TxnID        string
	EmailPending bool
}

// Repo is the persistent key/value storage backing a Store.
// Get returns errors.ErrNotFound for absent keys.
type Repo interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
