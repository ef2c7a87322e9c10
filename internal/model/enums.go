package model

// Job types
type JobType string

const (
	JobTypeGenerate   JobType = "generate"
	JobTypeRegenerate JobType = "regenerate"
)

// Valid reports whether t is a known job type.
func (t JobType) Valid() bool {
	return t == JobTypeGenerate || t == JobTypeRegenerate
}

// Job status
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// ActiveJobStatuses are the statuses a job can leave.
var ActiveJobStatuses = []JobStatus{JobStatusPending, JobStatusProcessing}

// IsTerminal reports whether no transition leaves s.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// Keyword status
type KeywordStatus string

const (
	KeywordStatusNew       KeywordStatus = "new"
	KeywordStatusDraft     KeywordStatus = "draft"
	KeywordStatusPublished KeywordStatus = "published"
)

// Article status
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// Search intents accepted for keywords
const (
	IntentInformational = "informational"
	IntentTransactional = "transactional"
)

// Setting keys read by the generation pipeline
const (
	SettingProductKnowledge       = "productKnowledge"
	SettingEnableProductKnowledge = "enableProductKnowledge"
	SettingAIProvider             = "aiProvider"
)
