package models

// ChangeRouteState is the session-scoped record of an active "change answer"
// journey. A nil state means ordinary forward navigation.
type ChangeRouteState struct {
	ChangeType           string   `json:"changeType"`
	ApplicationIndex     *int     `json:"applicationIndex,omitempty"`
	ReturnURL            string   `json:"returnUrl"`
	StartURLs            []string `json:"startUrls"`
	EndURLs              []string `json:"endUrls,omitempty"`
	ShowConfirmationPage bool     `json:"showConfirmationPage"`
	DataRemoved          bool     `json:"dataRemoved"`
}
