package models

// Requests for the decision HTTP endpoints and the CLI. Defined in domain
// so both surfaces bind the same shapes.

type DecideRequest struct {
	Ticker    string       `json:"ticker" validate:"omitempty,max=32"`
	SessionID string       `json:"session_id" validate:"omitempty,uuid|eq=default"`
	Features  FeatureInput `json:"features"`
	Context   ContextInput `json:"context"`
	// Returns and Prices are alternative window inputs; at most one is set.
	Returns []float64 `json:"returns,omitempty" validate:"omitempty,max=10000"`
	Prices  []float64 `json:"prices,omitempty" validate:"omitempty,excluded_with=Returns,max=10001,dive,gt=0"`
	// Sample draws the ticker and base features from the reference dataset;
	// supplied features override the sampled ones.
	Sample bool `json:"sample"`
}

type SimpleDecideRequest struct {
	Ticker   string       `json:"ticker" validate:"omitempty,max=32"`
	Features FeatureInput `json:"features"`
	Context  ContextInput `json:"context"`
	Sample   bool         `json:"sample"`
}

type SessionRequest struct {
	Prior map[string]float64 `json:"prior,omitempty"`
}

type SampleRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"omitempty,max=32"`
}

type RecommendationRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required,max=32"`
}
