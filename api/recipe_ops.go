package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Recipes fetches one page of the shared recipe feed.
func (c *Client) Recipes(ctx context.Context, filters ListFilters) (RecipePage, Result) {
	return c.recipePage(ctx, RecipeListRequest{Filters: filters})
}

// MyRecipes fetches one page of the caller's own recipes.
func (c *Client) MyRecipes(ctx context.Context, filters ListFilters) (RecipePage, Result) {
	return c.recipePage(ctx, MyRecipesRequest{Filters: filters})
}

// Favorites fetches one page of the caller's saved recipes.
func (c *Client) Favorites(ctx context.Context, filters ListFilters) (RecipePage, Result) {
	return c.recipePage(ctx, MyRecipesRequest{Filters: filters, Favorites: true})
}

func (c *Client) recipePage(ctx context.Context, req Request) (RecipePage, Result) {
	res := c.Do(ctx, req)
	if !res.Success {
		return RecipePage{}, res
	}
	items, total, ok := decodePage[Recipe](res.Data)
	if !ok {
		return RecipePage{}, failure(MsgServerUnreachable)
	}
	return RecipePage{Items: items, Total: total}, res
}

// Recipe fetches one recipe by id.
func (c *Client) Recipe(ctx context.Context, recipeID string) (Recipe, Result) {
	res := c.Do(ctx, OneRecipeRequest{RecipeID: recipeID})
	if !res.Success {
		return Recipe{}, res
	}
	items, _, ok := decodePage[Recipe](res.Data)
	if !ok || len(items) == 0 {
		return Recipe{}, failure(fmt.Sprintf("Recipe %s not found.", recipeID))
	}
	return items[0], res
}

// RateRecipe submits a rating and review.
func (c *Client) RateRecipe(ctx context.Context, recipeID string, rating int, comment string) Result {
	return c.Do(ctx, AddRatingRequest{RecipeID: recipeID, RatingValue: rating, CommentText: comment})
}

// ToggleSaved adds the recipe to or removes it from the caller's
// favorites.
func (c *Client) ToggleSaved(ctx context.Context, recipeID string, add bool) Result {
	return c.Do(ctx, SavedRecipeRequest{RecipeID: recipeID, Add: add})
}

// UploadRecipeImage streams an image through the backend's S3 gateway and
// returns the hosted URL.
func (c *Client) UploadRecipeImage(ctx context.Context, fileName string, content io.Reader) (string, Result) {
	raw, err := io.ReadAll(content)
	if err != nil {
		return "", failure(MsgServerUnreachable)
	}
	res := c.Do(ctx, UploadImageRequest{FileName: fileName, Content: raw})
	if !res.Success {
		return "", res
	}
	var env struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.Unmarshal(res.Data, &env); err != nil {
		return "", failure(MsgServerUnreachable)
	}
	return env.ImageURL, res
}

// CreateRecipe publishes a recipe.
func (c *Client) CreateRecipe(ctx context.Context, recipe AddRecipeRequest) Result {
	return c.Do(ctx, recipe)
}
