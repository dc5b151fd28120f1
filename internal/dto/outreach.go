// Package dto holds the request and response payloads of the HTTP API.
package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/octobees/outreach-api/internal/entity"
)

// Batch modes accepted by POST /emails/batch.
const (
	BatchModeVerify = "verify"
	BatchModeFast   = "fast"
)

// MaxBatchContacts bounds a single batch request.
const MaxBatchContacts = 100

var validate = validator.New()

// ResolveEmailRequest asks for one person's best address.
type ResolveEmailRequest struct {
	PDLEmail     string `json:"pdl_email" validate:"omitempty,email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company" validate:"required_without=TargetDomain"`
	Website      string `json:"website,omitempty"`
	TargetDomain string `json:"target_domain,omitempty" validate:"omitempty,fqdn"`
	SkipPersonal bool   `json:"skip_personal,omitempty"`
}

// Validate checks the request against its field rules.
func (r *ResolveEmailRequest) Validate() error {
	return validate.Struct(r)
}

// ResolveProfileRequest asks for an address by profile URL.
type ResolveProfileRequest struct {
	ProfileURL    string `json:"profile_url" validate:"required"`
	TargetCompany string `json:"target_company,omitempty"`
}

// Validate checks the request against its field rules.
func (r *ResolveProfileRequest) Validate() error {
	r.ProfileURL = strings.TrimSpace(r.ProfileURL)
	return validate.Struct(r)
}

// BatchResolveRequest resolves emails for many contacts at once.
type BatchResolveRequest struct {
	Contacts      []entity.Contact `json:"contacts" validate:"required,min=1,max=100"`
	TargetCompany string           `json:"target_company,omitempty"`
	Mode          string           `json:"mode,omitempty" validate:"omitempty,oneof=verify fast"`
}

// Validate checks the request against its field rules. Mode is matched
// case-insensitively.
func (r *BatchResolveRequest) Validate() error {
	r.Mode = strings.ToLower(strings.TrimSpace(r.Mode))
	return validate.Struct(r)
}

// BatchResolveResponse is the payload of POST /emails/batch.
type BatchResolveResponse struct {
	Contacts   []entity.ResolvedContact `json:"contacts"`
	DraftOrder []int                    `json:"draft_order"`
	Verified   int                      `json:"verified"`
	Unverified int                      `json:"unverified"`
	NoEmail    int                      `json:"no_email"`
}

// FindContactsRequest searches for recruiters or hiring managers for a role.
type FindContactsRequest struct {
	Company          string `json:"company" validate:"required"`
	JobTitle         string `json:"job_title"`
	JobDescription   string `json:"job_description,omitempty"`
	City             string `json:"city,omitempty"`
	State            string `json:"state,omitempty"`
	MaxResults       int    `json:"max_results,omitempty" validate:"omitempty,min=1,max=50"`
	VerifyEmails     bool   `json:"verify_emails,omitempty"`
	GenerateOutreach bool   `json:"generate_outreach,omitempty"`
	Save             bool   `json:"save,omitempty"`
}

// Validate checks the request against its field rules.
func (r *FindContactsRequest) Validate() error {
	r.Company = strings.TrimSpace(r.Company)
	return validate.Struct(r)
}

// ValidationMessage renders validator errors as "field: rule" pairs.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := toSnake(fe.Field())
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, fe.Tag()))
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

func toSnake(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if isUpper(ch) {
			prevLower := i > 0 && !isUpper(name[i-1])
			nextLower := i > 0 && i+1 < len(name) && !isUpper(name[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			ch += 'a' - 'A'
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func isUpper(ch byte) bool {
	return ch >= 'A' && ch <= 'Z'
}
