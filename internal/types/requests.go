package types

// GenerateRecipeRequest is the recipe form. The page posts user-instructions,
// JSON clients send instructions.
type GenerateRecipeRequest struct {
	UserInstructions string `form:"user-instructions" json:"-"`
	Instructions     string `form:"instructions" json:"instructions"`
}

// Value returns whichever field was filled in
func (r GenerateRecipeRequest) Value() string {
	if r.UserInstructions != "" {
		return r.UserInstructions
	}
	return r.Instructions
}

// SelectDishRequest picks a suggestion from an open cuisine card
type SelectDishRequest struct {
	Dish string `form:"dish" json:"dish" binding:"required"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
