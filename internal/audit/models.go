package audit

import "time"

// Action names a submission lifecycle step worth recording.
type Action string

const (
	ActionSubmissionCreated Action = "submission_created"
	ActionDraftSaved        Action = "draft_saved"
	ActionDraftDeleted      Action = "draft_deleted"
	ActionDataRemoved       Action = "change_data_removed"
	ActionSubmissionPosted  Action = "submission_posted"
	ActionPaymentCompleted  Action = "payment_completed"
	ActionDocumentAttached  Action = "document_attached"
)

// Event is emitted from the submission service. It stays transport-agnostic
// so sinks can fan out.
type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	Action        Action    `json:"action"`
	UserKey       string    `json:"userKey"`
	SessionID     string    `json:"sessionId,omitempty"`
	RequestID     string    `json:"requestId,omitempty"`
	SubmissionRef string    `json:"submissionRef,omitempty"`
	PermitType    string    `json:"permitType,omitempty"`
	Page          string    `json:"page,omitempty"`
	Fields        []string  `json:"fields,omitempty"`
}
