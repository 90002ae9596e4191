package service

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/dtroode/invitekeeper/internal/apierror"
	"github.com/dtroode/invitekeeper/internal/model"
)

// Invite limits.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
	MaxCustomLinks       = 10
	MaxRules             = 20
	MaxMediaSize         = 50 * 1024 * 1024
)

var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/quicktime": true,
}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

func validateName(name string) error {
	if utf8.RuneCountInString(name) > MaxNameLength {
		return apierror.NewErrValidation("Invalid name",
			fmt.Sprintf("Name must be at most %d characters long", MaxNameLength))
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return apierror.NewErrValidation("Invalid description",
			fmt.Sprintf("Description must be at most %d characters long", MaxDescriptionLength))
	}
	return nil
}

func validateCustomLinks(links []model.CustomLink) error {
	if len(links) > MaxCustomLinks {
		return apierror.NewErrValidation("Too many links",
			fmt.Sprintf("An invite can have at most %d custom links", MaxCustomLinks))
	}
	return nil
}

func validateRules(rules []string) error {
	if len(rules) > MaxRules {
		return apierror.NewErrValidation("Too many rules",
			fmt.Sprintf("An invite can have at most %d rules", MaxRules))
	}
	return nil
}

func validateMedia(file *model.MediaFile) error {
	if file == nil {
		return nil
	}
	if !allowedMediaTypes[file.ContentType] {
		return apierror.NewErrValidation("Unsupported media",
			fmt.Sprintf("Media type %q is not supported, use JPEG, PNG, WebP, MP4 or QuickTime", file.ContentType))
	}
	if file.Size > MaxMediaSize {
		return apierror.NewErrValidation("Media too large",
			fmt.Sprintf("Media must be at most %d MB", MaxMediaSize/(1024*1024)))
	}
	return nil
}

func validateCreate(req model.CreateInviteRequest) error {
	checks := []error{
		validateName(req.Name),
		validateDescription(req.Description),
		validateCustomLinks(req.CustomLinks),
		validateRules(req.Config.Rules),
		validateMedia(req.CoverImageMedia),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

func validateUpdate(req model.UpdateInviteRequest) error {
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return err
		}
	}
	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return err
		}
	}
	if req.CustomLinks != nil {
		if err := validateCustomLinks(*req.CustomLinks); err != nil {
			return err
		}
	}
	if req.Config != nil && req.Config.Rules != nil {
		if err := validateRules(*req.Config.Rules); err != nil {
			return err
		}
	}
	return validateMedia(req.CoverImageMedia)
}

// ValidateRegistration checks that every field is set, the email looks like
// an address and the password is long enough, in that order.
func ValidateRegistration(req model.RegisterRequest) error {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apierror.NewErrValidation("Missing required fields", "Name, email, and password are required")
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	return validatePassword(req.Password)
}

func validatePassword(password string) error {
	if len(password) < model.MinPasswordLength {
		return apierror.NewErrValidation("Invalid password",
			fmt.Sprintf("Password must be at least %d characters long", model.MinPasswordLength))
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apierror.NewErrValidation("Invalid email", "Please provide a valid email address")
	}
	return nil
}
