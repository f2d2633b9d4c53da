package jaegermodel

import "time"

// JobApplication belongs to exactly one user. CompanyName is a snapshot kept
// for display and is never synchronised with the referenced Company.
type JobApplication struct {
	ID              int64             `db:"id"`
	UserID          int64             `db:"user_id"`
	CompanyID       *int64            `db:"company_id"`
	JobTitle        string            `db:"job_title"`
	CompanyName     string            `db:"company_name"`
	JobLocation     *string           `db:"job_location"`
	JobURL          *string           `db:"job_url"`
	ApplicationDate time.Time         `db:"application_date"`
	Status          ApplicationStatus `db:"status"`
	Notes           *string           `db:"notes"`
	CreatedAt       time.Time         `db:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at"`

	// Rounds is filled by the same fetch that loads the application.
	Rounds []InterviewRound `db:"-"`
}

type ApplicationCreate struct {
	JobTitle        string             `json:"jobTitle" validate:"required,max=200"`
	CompanyName     string             `json:"companyName" validate:"required,max=200"`
	JobLocation     *string            `json:"jobLocation" validate:"omitempty,max=200"`
	JobURL          *string            `json:"jobUrl" validate:"omitempty,max=1000"`
	ApplicationDate *time.Time         `json:"applicationDate"`
	Status          *ApplicationStatus `json:"status"`
	Notes           *string            `json:"notes" validate:"omitempty,max=5000"`
	CompanyID       *int64             `json:"companyId" validate:"omitempty,gt=0"`
}

// NewApplication builds the stored record. Status defaults to Applied and the
// application date to now.
func (c ApplicationCreate) NewApplication(ownerID int64, now time.Time) JobApplication {
	app := JobApplication{
		UserID:          ownerID,
		CompanyID:       c.CompanyID,
		JobTitle:        c.JobTitle,
		CompanyName:     c.CompanyName,
		JobLocation:     c.JobLocation,
		JobURL:          c.JobURL,
		ApplicationDate: now,
		Status:          StatusApplied,
		Notes:           c.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if c.ApplicationDate != nil {
		app.ApplicationDate = c.ApplicationDate.UTC()
	}
	if c.Status != nil {
		app.Status = *c.Status
	}
	return app
}

// ApplicationPatch changes only the fields that are non-nil.
type ApplicationPatch struct {
	JobTitle        *string            `json:"jobTitle" validate:"omitempty,min=1,max=200"`
	CompanyName     *string            `json:"companyName" validate:"omitempty,min=1,max=200"`
	JobLocation     *string            `json:"jobLocation" validate:"omitempty,max=200"`
	JobURL          *string            `json:"jobUrl" validate:"omitempty,max=1000"`
	ApplicationDate *time.Time         `json:"applicationDate"`
	Status          *ApplicationStatus `json:"status"`
	Notes           *string            `json:"notes" validate:"omitempty,max=5000"`
	CompanyID       *int64             `json:"companyId" validate:"omitempty,gt=0"`
}

func (p ApplicationPatch) Apply(a *JobApplication, now time.Time) {
	if p.JobTitle != nil {
		a.JobTitle = *p.JobTitle
	}
	if p.CompanyName != nil {
		a.CompanyName = *p.CompanyName
	}
	if p.JobLocation != nil {
		a.JobLocation = p.JobLocation
	}
	if p.JobURL != nil {
		a.JobURL = p.JobURL
	}
	if p.ApplicationDate != nil {
		a.ApplicationDate = p.ApplicationDate.UTC()
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Notes != nil {
		a.Notes = p.Notes
	}
	if p.CompanyID != nil {
		a.CompanyID = p.CompanyID
	}
	a.UpdatedAt = now
}
