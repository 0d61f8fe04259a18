package models

// ReIndexApplications reassigns ApplicationIndex 0..n-1 in slice order. Call
// it after any splice, filter or generation of applications.
func ReIndexApplications(apps []Application) []Application {
	for i := range apps {
		apps[i].ApplicationIndex = i
	}
	return apps
}

// Clone returns a deep copy of the submission.
func (s *Submission) Clone() (*Submission, error) {
	doc, err := ToDocument(s)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// NewSubmission seeds an empty submission owned by the signed-in contact.
func NewSubmission(sc SubmissionContext) *Submission {
	return &Submission{
		ContactID:      sc.ContactID,
		OrganisationID: sc.OrganisationID,
		Applications:   []Application{},
	}
}
