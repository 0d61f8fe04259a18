package models

// SubmissionContext identifies whose submission an operation works on. It is
// built once per request by the handler and passed to every service call.
type SubmissionContext struct {
	SessionID      string
	ContactID      string
	OrganisationID string
}

// UserKey keys durable per-user state such as drafts.
func (sc SubmissionContext) UserKey() string {
	if sc.OrganisationID == "" {
		return sc.ContactID
	}
	return sc.ContactID + "_" + sc.OrganisationID
}
