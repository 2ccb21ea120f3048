package calorie

// ActivityLevel is a labelled multiplier offered by the calculator form
type ActivityLevel struct {
	Label  string  `json:"label"`
	Factor float64 `json:"factor"`
}

// ActivityLevels lists the form's choices, least active first
var ActivityLevels = []ActivityLevel{
	{Label: "Sedentary (little or no exercise)", Factor: 1.2},
	{Label: "Lightly active (1-3 days/week)", Factor: 1.375},
	{Label: "Moderately active (3-5 days/week)", Factor: 1.55},
	{Label: "Very active (6-7 days/week)", Factor: 1.725},
	{Label: "Extra active (physical job or training twice a day)", Factor: 1.9},
}
