package models

import "time"

// Draft is a resumable snapshot of an unsubmitted submission.
type Draft struct {
	Submission   *Submission `json:"submission"`
	SavePointURL string      `json:"savePointUrl"`
	SavedAt      time.Time   `json:"savedAt"`
}
