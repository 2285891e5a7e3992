package api

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/foodieshq/foodies-client/session"
)

// SignIn authenticates and, on success, persists the full session: both
// tokens plus the user's id and display name.
func (c *Client) SignIn(ctx context.Context, email, password string) Result {
	res := c.Do(ctx, SignInRequest{Email: email, Password: password})
	if !res.Success {
		return res
	}

	var env struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		Data         struct {
			UserID string `json:"userId"`
			Name   string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(res.Data, &env); err != nil {
		log.Err(err).Msg("Sign-in response did not match the expected shape")
		return failure(MsgServerUnreachable)
	}

	err := c.store.Save(session.Session{
		AccessToken:  env.AccessToken,
		RefreshToken: env.RefreshToken,
		UserID:       env.Data.UserID,
		UserName:     env.Data.Name,
	})
	if err != nil {
		log.Err(err).Msg("Failed to persist session")
		return failure(err.Error())
	}
	return res
}

// SignUp registers an account and records the returned OTP transaction so
// the verify step can pick it up.
func (c *Client) SignUp(ctx context.Context, name, email, password string) Result {
	res := c.Do(ctx, SignUpRequest{Name: name, Email: email, Password: password})
	if !res.Success {
		return res
	}
	if txnID, ok := decodeTxnID(res.Data); ok {
		if err := c.store.BeginSignupTxn(txnID); err != nil {
			log.Err(err).Msg("Failed to record signup transaction")
		}
	}
	return res
}

// VerifyOTP confirms the pending signup transaction and consumes it.
func (c *Client) VerifyOTP(ctx context.Context, otp string) Result {
	pending, err := c.store.PendingTxn()
	if err != nil {
		return failure(err.Error())
	}
	res := c.Do(ctx, VerifyOTPRequest{OTP: otp, TxnID: pending.TxnID})
	if res.Success {
		if err := c.store.ClearSignupTxn(); err != nil {
			log.Err(err).Msg("Failed to clear signup transaction")
		}
	}
	return res
}

// ResendOTP requests a fresh code for the pending transaction.
func (c *Client) ResendOTP(ctx context.Context) Result {
	pending, err := c.store.PendingTxn()
	if err != nil {
		return failure(err.Error())
	}
	return c.Do(ctx, ResendOTPRequest{TxnID: pending.TxnID})
}

// ForgotPassword starts a password-reset transaction.
func (c *Client) ForgotPassword(ctx context.Context, email string) Result {
	res := c.Do(ctx, ForgotPasswordRequest{Email: email})
	if !res.Success {
		return res
	}
	if txnID, ok := decodeTxnID(res.Data); ok {
		if err := c.store.BeginSignupTxn(txnID); err != nil {
			log.Err(err).Msg("Failed to record reset transaction")
		}
	}
	return res
}

// ConfirmPasswordReset completes the reset and consumes the transaction.
func (c *Client) ConfirmPasswordReset(ctx context.Context, password, txnID string) Result {
	res := c.Do(ctx, PasswordConfirmRequest{Password: password, TxnID: txnID})
	if res.Success {
		if err := c.store.ClearSignupTxn(); err != nil {
			log.Err(err).Msg("Failed to clear reset transaction")
		}
	}
	return res
}

// Logout invalidates the session server-side and, on success, destroys
// the local session.
func (c *Client) Logout(ctx context.Context) Result {
	res := c.Do(ctx, LogoutRequest{})
	if res.Success {
		if err := c.store.Clear(); err != nil {
			log.Err(err).Msg("Failed to clear session")
		}
	}
	return res
}

func decodeTxnID(data json.RawMessage) (string, bool) {
	var env struct {
		Data struct {
			TxnID string `json:"txnId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil || env.Data.TxnID == "" {
		return "", false
	}
	return env.Data.TxnID, true
}
