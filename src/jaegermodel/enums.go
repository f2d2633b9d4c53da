package jaegermodel

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
)

// ApplicationStatus is where a job application currently stands.
type ApplicationStatus string

const (
	StatusApplied      ApplicationStatus = "Applied"
	StatusInterviewing ApplicationStatus = "Interviewing"
	StatusOffer        ApplicationStatus = "Offer"
	StatusRejected     ApplicationStatus = "Rejected"
	StatusWithdrawn    ApplicationStatus = "Withdrawn"
	StatusGhosted      ApplicationStatus = "Ghosted"
)

// ApplicationStatuses lists every status in declaration order. The order is
// the one used when sorting by status.
var ApplicationStatuses = []ApplicationStatus{
	StatusApplied, StatusInterviewing, StatusOffer, StatusRejected, StatusWithdrawn, StatusGhosted,
}

// InterviewType is the kind of interview a round was.
type InterviewType string

const (
	InterviewHR         InterviewType = "HR"
	InterviewTechnical  InterviewType = "Technical"
	InterviewManagerial InterviewType = "Managerial"
	InterviewCultural   InterviewType = "Cultural"
	InterviewFinal      InterviewType = "Final"
	InterviewOther      InterviewType = "Other"
)

var InterviewTypes = []InterviewType{
	InterviewHR, InterviewTechnical, InterviewManagerial, InterviewCultural, InterviewFinal, InterviewOther,
}

// InterviewResult is the outcome of a single interview round.
type InterviewResult string

const (
	ResultPending   InterviewResult = "Pending"
	ResultPassed    InterviewResult = "Passed"
	ResultFailed    InterviewResult = "Failed"
	ResultCancelled InterviewResult = "Cancelled"
)

var InterviewResults = []InterviewResult{
	ResultPending, ResultPassed, ResultFailed, ResultCancelled,
}

// parseEnum accepts a member name in any casing or its ordinal.
func parseEnum[T ~string](kind string, values []T, raw string) (T, error) {
	raw = strings.TrimSpace(raw)
	for _, v := range values {
		if strings.EqualFold(string(v), raw) {
			return v, nil
		}
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n < len(values) {
		return values[n], nil
	}
	var zero T
	return zero, jaegererr.Invalid("%q is not a valid %s", raw, kind)
}

func unmarshalEnum[T ~string](kind string, values []T, b []byte) (T, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			var zero T
			return zero, err
		}
		return parseEnum(kind, values, s)
	}
	return parseEnum(kind, values, string(b))
}

func ordinal[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return -1
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	return parseEnum("application status", ApplicationStatuses, s)
}

func (s *ApplicationStatus) UnmarshalJSON(b []byte) error {
	v, err := unmarshalEnum("application status", ApplicationStatuses, b)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Ordinal is the position of s in ApplicationStatuses, or -1.
func (s ApplicationStatus) Ordinal() int { return ordinal(ApplicationStatuses, s) }

func ParseInterviewType(s string) (InterviewType, error) {
	return parseEnum("interview type", InterviewTypes, s)
}

func (t *InterviewType) UnmarshalJSON(b []byte) error {
	v, err := unmarshalEnum("interview type", InterviewTypes, b)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func ParseInterviewResult(s string) (InterviewResult, error) {
	return parseEnum("interview result", InterviewResults, s)
}

func (r *InterviewResult) UnmarshalJSON(b []byte) error {
	v, err := unmarshalEnum("interview result", InterviewResults, b)
	if err != nil {
		return err
	}
	*r = v
	return nil
}
