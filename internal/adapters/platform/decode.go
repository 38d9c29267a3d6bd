package platform

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/okian/learnboard/internal/domain/model"
	"github.com/okian/learnboard/pkg/metrics"
)

// Wire rows as the platform returns them. Pointer fields distinguish a
// missing value from a zero one.

// UserRow is one element of the user array.
type UserRow struct {
	ID         *int     `json:"id" validate:"required"`
	Login      *string  `json:"login" validate:"required"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	Campus     string   `json:"campus"`
	CreatedAt  string   `json:"createdAt"`
	TotalUp    *float64 `json:"totalUp" validate:"omitempty,gte=0"`
	TotalDown  *float64 `json:"totalDown" validate:"omitempty,gte=0"`
	AuditRatio *float64 `json:"auditRatio" validate:"omitempty,gte=0"`
}

// XPRow is one XP transaction.
type XPRow struct {
	Amount    *float64 `json:"amount" validate:"required,gte=0"`
	CreatedAt *string  `json:"createdAt" validate:"required"`
}

// ObjectRow is the object a progress row refers to.
type ObjectRow struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ProgressRow is one project attempt. A null grade marks work in progress.
type ProgressRow struct {
	ID        *int64     `json:"id" validate:"required"`
	Grade     *float64   `json:"grade"`
	CreatedAt *string    `json:"createdAt" validate:"required"`
	Object    *ObjectRow `json:"object"`
}

// SkillRow is one skill transaction.
type SkillRow struct {
	Type      *string  `json:"type" validate:"required"`
	Amount    *float64 `json:"amount" validate:"required"`
	CreatedAt *string  `json:"createdAt"`
}

// UserDataPayload is the data object of the UserData operation.
type UserDataPayload struct {
	User        []UserRow     `json:"user"`
	Transaction []XPRow       `json:"transaction"`
	Progress    []ProgressRow `json:"progress"`
}

// SkillScoresPayload is the data object of the SkillScores operation.
type SkillScoresPayload struct {
	Transaction []SkillRow `json:"transaction"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check validates row and converts the first violation into a
// MalformedRecordError for kind at index i.
func check(kind string, i int, row any) error {
	err := validate.Struct(row)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return malformed(kind, i, "", err.Error())
	}
	fe := verrs[0]
	return malformed(kind, i, fe.Field(), reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return ""
	case "gte":
		return "is negative"
	default:
		return "fails " + fe.Tag()
	}
}

func malformed(kind string, i int, field, why string) error {
	metrics.RecordMalformedRecord(kind)
	return &model.MalformedRecordError{Kind: kind, Index: i, Field: field, Reason: why}
}

func parseTime(kind string, i int, field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, malformed(kind, i, field, "is not an RFC 3339 timestamp")
	}
	return t.UTC(), nil
}

// decodeUser converts the first user row. The platform answers with an
// array; an empty one means the token does not map to a user.
func decodeUser(rows []UserRow) (model.UserProfile, error) {
	if len(rows) == 0 {
		return model.UserProfile{}, ErrUserNotFound
	}
	u := rows[0]
	if err := check("user", 0, u); err != nil {
		return model.UserProfile{}, err
	}
	p := model.UserProfile{
		ID:         *u.ID,
		Login:      *u.Login,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Campus:     u.Campus,
		TotalUp:    deref(u.TotalUp),
		TotalDown:  deref(u.TotalDown),
		AuditRatio: deref(u.AuditRatio),
	}
	if u.CreatedAt != "" {
		t, err := parseTime("user", 0, "createdAt", u.CreatedAt)
		if err != nil {
			return model.UserProfile{}, err
		}
		p.CreatedAt = t
	}
	return p, nil
}

func decodeXP(rows []XPRow) ([]model.TimedAmount, error) {
	out := make([]model.TimedAmount, 0, len(rows))
	for i, r := range rows {
		if err := check("transaction", i, r); err != nil {
			return nil, err
		}
		t, err := parseTime("transaction", i, "createdAt", *r.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, model.TimedAmount{Timestamp: t, Amount: *r.Amount})
	}
	return out, nil
}

// decodeProgress converts graded rows; rows without a grade are skipped.
func decodeProgress(rows []ProgressRow) ([]model.ProjectResult, error) {
	out := make([]model.ProjectResult, 0, len(rows))
	for i, r := range rows {
		if err := check("progress", i, r); err != nil {
			return nil, err
		}
		if r.Grade == nil {
			continue
		}
		t, err := parseTime("progress", i, "createdAt", *r.CreatedAt)
		if err != nil {
			return nil, err
		}
		res := model.ProjectResult{
			ID:          strconv.FormatInt(*r.ID, 10),
			Grade:       *r.Grade,
			CompletedAt: t,
		}
		if r.Object != nil {
			res.SubjectName = r.Object.Name
		}
		out = append(out, res)
	}
	return out, nil
}

func decodeSkills(rows []SkillRow) ([]model.SkillTransaction, error) {
	out := make([]model.SkillTransaction, 0, len(rows))
	for i, r := range rows {
		if err := check("skill", i, r); err != nil {
			return nil, err
		}
		s := model.SkillTransaction{Type: *r.Type, Amount: *r.Amount}
		if r.CreatedAt != nil && *r.CreatedAt != "" {
			t, err := parseTime("skill", i, "createdAt", *r.CreatedAt)
			if err != nil {
				return nil, err
			}
			s.CreatedAt = t
		}
		out = append(out, s)
	}
	return out, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
