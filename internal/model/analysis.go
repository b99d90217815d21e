package model

// RelevanceResult is the verdict of a company relevance check
type RelevanceResult struct {
	IsRelevant bool   `json:"is_relevant"`
	Reason     string `json:"reason"`
}

// TopicAnalysis is the verdict for one thematic area
type TopicAnalysis struct {
	Topic    string `json:"topic"`
	Relevant bool   `json:"relevant"`
	Reason   string `json:"reason"`
}

// PredefinedAnalysisResult is the summary plus one verdict per taxonomy
// topic, in taxonomy order
type PredefinedAnalysisResult struct {
	Summary  string          `json:"summary"`
	Analyses []TopicAnalysis `json:"analyses"`
}
