package recommendation

const (
	AlgorithmVersion = "v1.0"

	defaultMaxResults     = 10
	defaultFallbackLimit  = 5
	defaultFallbackScore  = 60.0
	defaultTagWeight      = 50.0
	defaultWeightMultiple = 10.0
	defaultWeightBonusCap = 30.0
	defaultPriorityStep   = 0.1
	defaultScoreCeiling   = 100.0
	defaultReasonTagLimit = 3
	defaultRoundingPlaces = 1
)

// Config holds the engine's tunable constants. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	Version string

	// ranked list is cut to MaxResults before unavailable drinks are dropped
	MaxResults int

	FallbackLimit int
	FallbackScore float64

	// tag overlap ratio is scaled by TagWeight
	TagWeight float64

	// bonus = min(totalWeight*WeightMultiple, WeightBonusCap)
	WeightMultiple float64
	WeightBonusCap float64

	// each priority level adds PriorityStep to the rule multiplier
	PriorityStep float64

	ScoreCeiling   float64
	ReasonTagLimit int
	RoundingPlaces int
}

func DefaultConfig() Config {
	return Config{
		Version:        AlgorithmVersion,
		MaxResults:     defaultMaxResults,
		FallbackLimit:  defaultFallbackLimit,
		FallbackScore:  defaultFallbackScore,
		TagWeight:      defaultTagWeight,
		WeightMultiple: defaultWeightMultiple,
		WeightBonusCap: defaultWeightBonusCap,
		PriorityStep:   defaultPriorityStep,
		ScoreCeiling:   defaultScoreCeiling,
		ReasonTagLimit: defaultReasonTagLimit,
		RoundingPlaces: defaultRoundingPlaces,
	}
}
