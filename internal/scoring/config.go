package scoring

// Config holds the constants of the scoring model.
type Config struct {
	// CampSurcharge is added per person to every tier when the camp is premium.
	CampSurcharge float64 `koanf:"camp_surcharge" validate:"gte=0"`

	MatchWeight  float64 `koanf:"match_weight" validate:"gte=0"`
	ValueWeight  float64 `koanf:"value_weight" validate:"gte=0"`
	BudgetWeight float64 `koanf:"budget_weight" validate:"gte=0"`

	// ScarcityPenalty is subtracted from the total for premium camps.
	ScarcityPenalty float64 `koanf:"scarcity_penalty" validate:"gte=0"`

	// Limit caps the shortlist length.
	Limit int `koanf:"limit" validate:"gt=0"`
}

// DefaultCampSurcharge is the premium camp upgrade in SAR per person.
const DefaultCampSurcharge = 4673.42

// DefaultConfig returns the production scoring model.
func DefaultConfig() Config {
	return Config{
		CampSurcharge:   DefaultCampSurcharge,
		MatchWeight:     0.6,
		ValueWeight:     0.25,
		BudgetWeight:    0.15,
		ScarcityPenalty: 0.15,
		Limit:           5,
	}
}
