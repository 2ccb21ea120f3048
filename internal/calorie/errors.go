package calorie

import "errors"

// ValidationError is returned when calculator input is rejected
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrInvalidNumber = &ValidationError{Code: "invalid_number", Message: "Please enter valid numbers."}
	ErrAgeRange      = &ValidationError{Code: "age_range", Message: "Please enter an age between 15 and 80."}
	ErrHeightRange   = &ValidationError{Code: "height_range", Message: "Please enter a height between 130cm and 230cm."}
	ErrWeightRange   = &ValidationError{Code: "weight_range", Message: "Please enter a weight between 40kg and 160kg."}
)

// AsValidationError unwraps err into a *ValidationError if it is one
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
