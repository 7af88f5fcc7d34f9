package models

// Decision is the final, explainable recommendation.
type Decision struct {
	Action     Action       `json:"action"`
	Confidence float64      `json:"confidence"`
	Reasons    []string     `json:"reasons"`
	FinalProbs Distribution `json:"final_probs"`
}

// Result is everything one orchestrated pipeline run produces.
type Result struct {
	Regime        Regime       `json:"regime"`
	Distance      float64      `json:"distance"`
	Alpha         float64      `json:"alpha"`
	RawProbs      Distribution `json:"raw_probs"`
	SmoothedProbs Distribution `json:"smoothed_probs"`
	Decision      Decision     `json:"decision"`
	Explanation   []string     `json:"explanation"`
}

// AssetSample is one row drawn from the reference dataset.
type AssetSample struct {
	Ticker   string        `json:"ticker"`
	Features FeatureVector `json:"features"`
}

// LabeledAsset is a reference dataset row together with the label the
// generator assigned to it.
type LabeledAsset struct {
	AssetSample
	Action Action `json:"action"`
}

// Export is the recommendation document handed to the presentation layer.
// Regime is empty for simple-mode decisions.
type Export struct {
	Ticker   string        `json:"ticker"`
	Features FeatureVector `json:"features"`
	Context  Context       `json:"context"`
	Regime   Regime        `json:"regime,omitempty"`
	Decision Decision      `json:"decision"`
}

// Outcome is the response of a decision request. Result is nil in simple
// mode.
type Outcome struct {
	SessionID string  `json:"session_id,omitempty"`
	Export    Export  `json:"export"`
	Result    *Result `json:"result,omitempty"`
}

// SessionInfo describes a pipeline session and its smoothing state.
type SessionInfo struct {
	ID       string       `json:"id"`
	Previous Distribution `json:"previous"`
}
