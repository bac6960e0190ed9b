package model

import "time"

// Report is the JSON summary of one interactive run.
type Report struct {
	RunID       string        `json:"run_id"`
	Source      string        `json:"source"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
	Total       int           `json:"total"`
	Answered    int           `json:"answered"`
	Correct     int           `json:"correct"`
	Wrong       int           `json:"wrong"`
	GradeMulti  bool          `json:"grade_multi"`
	WrongDetail []WrongResult `json:"wrong_questions"`
}

// WrongResult holds one question from the wrong list for export.
type WrongResult struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	CorrectSpec string   `json:"correct_spec"`
	Selected    string   `json:"selected,omitempty"`
}
