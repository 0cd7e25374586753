package assets

import (
	"strings"
	"unicode/utf8"

	"knowledge-network/internal/apperr"
)

const (
	MinTitleLen  = 3
	MaxTitleLen  = 200
	MaxTags      = 10
	MaxTagLen    = 50
	MaxSearchLen = 200
)

func validateTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n == 0 {
		return apperr.Validationf("title is required")
	}
	if n < MinTitleLen {
		return apperr.Validationf("title must be at least %d characters", MinTitleLen)
	}
	if n > MaxTitleLen {
		return apperr.Validationf("title must be at most %d characters", MaxTitleLen)
	}
	return nil
}

func validateDescription(desc string) error {
	if strings.TrimSpace(desc) == "" {
		return apperr.Validationf("description is required")
	}
	return nil
}

func validateTags(tags []string) error {
	if len(tags) > MaxTags {
		return apperr.Validationf("at most %d tags allowed, got %d", MaxTags, len(tags))
	}
	for i, t := range tags {
		if strings.TrimSpace(t) == "" {
			return apperr.Validationf("tag %d is empty", i+1)
		}
		if utf8.RuneCountInString(t) > MaxTagLen {
			return apperr.Validationf("tag %q exceeds %d characters", t, MaxTagLen)
		}
	}
	return nil
}

func (in CreateInput) validate() error {
	if err := validateTitle(in.Title); err != nil {
		return err
	}
	if err := validateDescription(in.Description); err != nil {
		return err
	}
	return validateTags(in.Tags)
}

func (p Patch) validate() error {
	if p.Empty() {
		return apperr.Validationf("no fields to update")
	}
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := validateDescription(*p.Description); err != nil {
			return err
		}
	}
	if p.Tags != nil {
		return validateTags(*p.Tags)
	}
	return nil
}

func (d Decision) validate() error {
	switch d.Status {
	case StatusApproved:
	case StatusRejected:
		if strings.TrimSpace(d.ReviewComments) == "" {
			return apperr.Validationf("review comments are required when rejecting")
		}
	default:
		return apperr.Validationf("status must be %q or %q", StatusApproved, StatusRejected)
	}
	return nil
}
