package jaegermodel

import "time"

// InterviewRound lives and dies with its JobApplication.
type InterviewRound struct {
	ID               int64           `db:"id"`
	JobApplicationID int64           `db:"job_application_id"`
	InterviewDate    time.Time       `db:"interview_date"`
	InterviewType    InterviewType   `db:"interview_type"`
	Result           InterviewResult `db:"result"`
	Interviewer      *string         `db:"interviewer"`
	Feedback         *string         `db:"feedback"`
	Notes            *string         `db:"notes"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// InterviewRoundCreate has no result field: a new round is always Pending.
type InterviewRoundCreate struct {
	InterviewDate *time.Time     `json:"interviewDate" validate:"required"`
	InterviewType *InterviewType `json:"interviewType"`
	Interviewer   *string        `json:"interviewer" validate:"omitempty,max=200"`
	Feedback      *string        `json:"feedback" validate:"omitempty,max=3000"`
	Notes         *string        `json:"notes" validate:"omitempty,max=3000"`
}

func (c InterviewRoundCreate) NewRound(applicationID int64, now time.Time) InterviewRound {
	r := InterviewRound{
		JobApplicationID: applicationID,
		InterviewType:    InterviewHR,
		Result:           ResultPending,
		Interviewer:      c.Interviewer,
		Feedback:         c.Feedback,
		Notes:            c.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if c.InterviewDate != nil {
		r.InterviewDate = c.InterviewDate.UTC()
	}
	if c.InterviewType != nil {
		r.InterviewType = *c.InterviewType
	}
	return r
}

// InterviewRoundPatch changes only the fields that are non-nil. Result can
// only ever be set here.
type InterviewRoundPatch struct {
	InterviewDate *time.Time       `json:"interviewDate"`
	InterviewType *InterviewType   `json:"interviewType"`
	Result        *InterviewResult `json:"result"`
	Interviewer   *string          `json:"interviewer" validate:"omitempty,max=200"`
	Feedback      *string          `json:"feedback" validate:"omitempty,max=3000"`
	Notes         *string          `json:"notes" validate:"omitempty,max=3000"`
}

func (p InterviewRoundPatch) Apply(r *InterviewRound, now time.Time) {
	if p.InterviewDate != nil {
		r.InterviewDate = p.InterviewDate.UTC()
	}
	if p.InterviewType != nil {
		r.InterviewType = *p.InterviewType
	}
	if p.Result != nil {
		r.Result = *p.Result
	}
	if p.Interviewer != nil {
		r.Interviewer = p.Interviewer
	}
	if p.Feedback != nil {
		r.Feedback = p.Feedback
	}
	if p.Notes != nil {
		r.Notes = p.Notes
	}
	r.UpdatedAt = now
}

// StatusAfterRoundCreated is the status an application moves to when a new
// interview round is recorded against it. Only Applied advances; the second
// return value reports whether anything changed.
func StatusAfterRoundCreated(current ApplicationStatus) (ApplicationStatus, bool) {
	if current == StatusApplied {
		return StatusInterviewing, true
	}
	return current, false
}
