package api

import "encoding/json"

// Recipe as the backend returns it in list and detail responses.
type Recipe struct {
	ID              string  `json:"_id"`
	Title           string  `json:"title"`
	Ingredients     string  `json:"ingredients"`
	Steps           string  `json:"steps"`
	Description     string  `json:"description"`
	PreparationTime string  `json:"preparationTime"`
	CookingTime     string  `json:"cookingTime"`
	ImageURL        string  `json:"imageUrl"`
	Creator         string  `json:"creator"`
	AverageRating   float64 `json:"averageRating"`
}

// Profile is a user as shown in follower/following/all-user lists.
type Profile struct {
	ID              string `json:"_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Bio             string `json:"bio"`
	FavouriteRecipe string `json:"favouriteRecipe"`
	IsFollowing     bool   `json:"isFollowing"`
}

// ChatMessage is one entry of a conversation history.
type ChatMessage struct {
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	CreatedAt string `json:"createdAt"`
}

// RecipePage is a decoded page of the recipe feed.
type RecipePage struct {
	Items []Recipe
	Total int
}

// ProfilePage is a decoded page of a profile list.
type ProfilePage struct {
	Items []Profile
	Total int
}

type listEnvelope[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func decodePage[T any](data json.RawMessage) (items []T, total int, ok bool) {
	var env listEnvelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, 0, false
	}
	return env.Data, env.Total, true
}
