package api

import (
	"context"
	"encoding/json"
)

// Follow follows or unfollows a user. FollowerID defaults to the current
// user when empty.
func (c *Client) Follow(ctx context.Context, req FollowRequest) Result {
	if req.FollowerID == "" {
		if sess, err := c.store.Current(); err == nil {
			req.FollowerID = sess.UserID
		}
	}
	return c.Do(ctx, req)
}

// Profiles fetches one page of a follower/following/all-users list.
func (c *Client) Profiles(ctx context.Context, kind ProfileKind, page int, searchKey string) (ProfilePage, Result) {
	res := c.Do(ctx, UserProfilesRequest{Kind: kind, Page: page, SearchKey: searchKey})
	if !res.Success {
		return ProfilePage{}, res
	}
	items, total, ok := decodePage[Profile](res.Data)
	if !ok {
		return ProfilePage{}, failure(MsgServerUnreachable)
	}
	return ProfilePage{Items: items, Total: total}, res
}

// User fetches the caller's own profile.
func (c *Client) User(ctx context.Context) (Profile, Result) {
	res := c.Do(ctx, OneUserRequest{})
	if !res.Success {
		return Profile{}, res
	}
	var env struct {
		Data Profile `json:"data"`
	}
	if err := json.Unmarshal(res.Data, &env); err != nil {
		return Profile{}, failure(MsgServerUnreachable)
	}
	return env.Data, res
}

// UpdateProfile sends the changed profile fields.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) Result {
	return c.Do(ctx, req)
}

// SendMessage posts one chat message.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) Result {
	return c.Do(ctx, req)
}

// ChatHistory fetches the conversation between two users.
func (c *Client) ChatHistory(ctx context.Context, sender, receiver string) ([]ChatMessage, Result) {
	res := c.Do(ctx, GetChatRequest{Sender: sender, Receiver: receiver})
	if !res.Success {
		return nil, res
	}
	var env struct {
		Data []ChatMessage `json:"data"`
	}
	if err := json.Unmarshal(res.Data, &env); err != nil {
		return nil, failure(MsgServerUnreachable)
	}
	return env.Data, res
}
