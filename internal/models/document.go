package models

// Document is the canonical payload written as data.json inside a record
// archive. Field names are part of the wire format consumed by the backend
// processor and must not change.
type Document struct {
	UUID           string     `json:"uuid"`
	FormID         int64      `json:"formId"`
	DataPointID    string     `json:"dataPointId"`
	DeviceID       string     `json:"deviceId"`
	SubmissionDate int64      `json:"submissionDate"`
	Duration       int64      `json:"duration"` // seconds
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Responses      []Response `json:"responses"`
}

// Response is one question answer inside a Document.
type Response struct {
	QuestionID string `json:"questionId"`
	AnswerType string `json:"answerType"`
	Value      string `json:"value"`
}
