package jaegerservice

import (
	"time"

	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        int64            `json:"id"`
	Email     string           `json:"email"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Role      jaegermodel.Role `json:"role"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type CompanyResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Website          *string   `json:"website"`
	Industry         *string   `json:"industry"`
	Location         *string   `json:"location"`
	Notes            *string   `json:"notes"`
	ApplicationCount int       `json:"applicationCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ApplicationResponse is the list item shape.
type ApplicationResponse struct {
	ID              int64                         `json:"id"`
	JobTitle        string                        `json:"jobTitle"`
	CompanyName     string                        `json:"companyName"`
	JobLocation     *string                       `json:"jobLocation"`
	JobURL          *string                       `json:"jobUrl"`
	ApplicationDate time.Time                     `json:"applicationDate"`
	Status          jaegermodel.ApplicationStatus `json:"status"`
	Notes           *string                       `json:"notes"`
	CompanyID       *int64                        `json:"companyId"`
	InterviewCount  int                           `json:"interviewCount"`
	CreatedAt       time.Time                     `json:"createdAt"`
	UpdatedAt       time.Time                     `json:"updatedAt"`
}

// ApplicationDetailResponse adds the rounds themselves.
type ApplicationDetailResponse struct {
	ApplicationResponse
	InterviewRounds []RoundResponse `json:"interviewRounds"`
}

type RoundResponse struct {
	ID               int64                       `json:"id"`
	JobApplicationID int64                       `json:"jobApplicationId"`
	JobTitle         string                      `json:"jobTitle"`
	InterviewDate    time.Time                   `json:"interviewDate"`
	InterviewType    jaegermodel.InterviewType   `json:"interviewType"`
	Result           jaegermodel.InterviewResult `json:"result"`
	Interviewer      *string                     `json:"interviewer"`
	Feedback         *string                     `json:"feedback"`
	Notes            *string                     `json:"notes"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
}

func NewUserResponse(u jaegermodel.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role}
}

func newCompanyResponse(c jaegermodel.Company) CompanyResponse {
	return CompanyResponse{
		ID:               c.ID,
		Name:             c.Name,
		Website:          c.Website,
		Industry:         c.Industry,
		Location:         c.Location,
		Notes:            c.Notes,
		ApplicationCount: c.ApplicationCount,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func newApplicationResponse(a jaegermodel.JobApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		JobTitle:        a.JobTitle,
		CompanyName:     a.CompanyName,
		JobLocation:     a.JobLocation,
		JobURL:          a.JobURL,
		ApplicationDate: a.ApplicationDate,
		Status:          a.Status,
		Notes:           a.Notes,
		CompanyID:       a.CompanyID,
		InterviewCount:  len(a.Rounds),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func newApplicationDetail(a jaegermodel.JobApplication) ApplicationDetailResponse {
	rounds := make([]RoundResponse, 0, len(a.Rounds))
	for _, r := range a.Rounds {
		rounds = append(rounds, newRoundResponse(r, a.JobTitle))
	}
	return ApplicationDetailResponse{ApplicationResponse: newApplicationResponse(a), InterviewRounds: rounds}
}

func newRoundResponse(r jaegermodel.InterviewRound, jobTitle string) RoundResponse {
	return RoundResponse{
		ID:               r.ID,
		JobApplicationID: r.JobApplicationID,
		JobTitle:         jobTitle,
		InterviewDate:    r.InterviewDate,
		InterviewType:    r.InterviewType,
		Result:           r.Result,
		Interviewer:      r.Interviewer,
		Feedback:         r.Feedback,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
