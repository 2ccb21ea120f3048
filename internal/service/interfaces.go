package service

import (
	"context"
)

// RecipeGenerator produces a recipe for free-text instructions
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, instructions string) (*Recipe, error)
}

var _ RecipeGenerator = (*RecipeService)(nil)
