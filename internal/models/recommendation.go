package models

// Recommendation is the structured result of analyzing a text input.
// The JSON keys are the wire contract shared with the model reply and the UI -
// they must not change.
type Recommendation struct {
	Category         string   `json:"flow_consigliato"`
	BPMRange         string   `json:"bpm_range"`
	Traits           []string `json:"caratteristiche"`
	GenreExamples    []string `json:"esempi_genere"`
	PerceivedEmotion string   `json:"percezione_emotiva"`
	Reasoning        string   `json:"reasoning"`
	// LatencyMs is attached by the engine after parsing, never by the model
	LatencyMs int64 `json:"latenza_ms"`
}

// TranscriptionResult is the outcome of one speech-to-text attempt.
// When Succeeded is false, Text holds a human-readable diagnostic, not a
// transcript; callers must branch on Succeeded.
type TranscriptionResult struct {
	Text      string `json:"text"`
	Succeeded bool   `json:"succeeded"`
}

// Interaction is one (input, output) pair kept in the display-only history.
type Interaction struct {
	Type   string         `json:"type"`
	Input  string         `json:"input"`
	Output Recommendation `json:"output"`
}
