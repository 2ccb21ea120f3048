// Package calorie estimates daily calorie needs using the Mifflin-St Jeor
// basal metabolic rate equation scaled by an activity factor.
package calorie

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Gender selects the sex-specific constant of the BMR equation
type Gender string

const (
	Male  Gender = "male"
	Other Gender = "other"
)

// Accepted input ranges
const (
	MinAge      = 15
	MaxAge      = 80
	MinHeightCm = 130.0
	MaxHeightCm = 230.0
	MinWeightKg = 40.0
	MaxWeightKg = 160.0
)

// Input holds validated calculator input
type Input struct {
	Age            int     `json:"age"`
	Gender         Gender  `json:"gender"`
	HeightCm       float64 `json:"height_cm"`
	WeightKg       float64 `json:"weight_kg"`
	ActivityFactor float64 `json:"activity_factor"`
}

// Result is the outcome of a successful calculation
type Result struct {
	DailyCalories int `json:"daily_calories"`
}

// Message returns the sentence shown to the user
func (r Result) Message() string {
	return fmt.Sprintf("You need approximately %d calories/day.", r.DailyCalories)
}

// Form carries the raw form field values as submitted
type Form struct {
	Age      string `form:"age" json:"age"`
	Gender   string `form:"gender" json:"gender"`
	Height   string `form:"height" json:"height"`
	Weight   string `form:"weight" json:"weight"`
	Activity string `form:"activity" json:"activity"`
}

// ParseGender maps exactly "male" to Male and anything else to Other.
func ParseGender(s string) Gender {
	if s == string(Male) {
		return Male
	}
	return Other
}

// ParseForm converts raw form values into an Input, applying the checks in
// order: numeric parse, age range, height range, weight range. The activity
// factor has no bound but must still be a number.
func ParseForm(f Form) (Input, error) {
	age, ageOK := parseNumber(f.Age)
	height, heightOK := parseNumber(f.Height)
	weight, weightOK := parseNumber(f.Weight)
	if !ageOK || !heightOK || !weightOK {
		return Input{}, ErrInvalidNumber
	}

	in := Input{
		Age:      int(math.Trunc(age)),
		Gender:   ParseGender(f.Gender),
		HeightCm: height,
		WeightKg: weight,
	}
	if err := in.Validate(); err != nil {
		return Input{}, err
	}

	activity, ok := parseNumber(f.Activity)
	if !ok {
		return Input{}, ErrInvalidNumber
	}
	in.ActivityFactor = activity

	return in, nil
}

// Validate checks the range invariants, first failure wins
func (in Input) Validate() error {
	if in.Age < MinAge || in.Age > MaxAge {
		return ErrAgeRange
	}
	if math.IsNaN(in.HeightCm) || in.HeightCm < MinHeightCm || in.HeightCm > MaxHeightCm {
		return ErrHeightRange
	}
	if math.IsNaN(in.WeightKg) || in.WeightKg < MinWeightKg || in.WeightKg > MaxWeightKg {
		return ErrWeightRange
	}
	return nil
}

// BMR returns the basal metabolic rate in kcal/day
func (in Input) BMR() float64 {
	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.Age)
	if in.Gender == Male {
		return bmr + 5
	}
	return bmr - 161
}

// Calculate validates the input and returns the rounded daily calorie need
func Calculate(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	if math.IsNaN(in.ActivityFactor) || math.IsInf(in.ActivityFactor, 0) {
		return Result{}, ErrInvalidNumber
	}
	return Result{DailyCalories: roundHalfUp(in.BMR() * in.ActivityFactor)}, nil
}

// Evaluate parses and calculates in one step
func Evaluate(f Form) (Result, error) {
	in, err := ParseForm(f)
	if err != nil {
		return Result{}, err
	}
	return Calculate(in)
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// roundHalfUp rounds .5 toward positive infinity so negative factors round the
// same way browsers do.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
