package service

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/itchan-dev/chanengine/shared/config"
	"github.com/itchan-dev/chanengine/shared/domain"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/microcosm-cc/bluemonday"
)

// Validator normalizes user input once, on write. Posts are immutable, so
// whatever passes here is what every reader gets.
type Validator struct {
	cfg      *config.Public
	policy   *bluemonday.Policy
	validate *validator.Validate
}

func NewValidator(cfg *config.Config) *Validator {
	return &Validator{
		cfg:      &cfg.Public,
		policy:   bluemonday.StrictPolicy(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// plainText trims s and rejects it when it contains markup. Accepted text is
// stored as written; the policy only detects tags.
func (v *Validator) plainText(field, s string) (string, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	if html.UnescapeString(v.policy.Sanitize(s)) != html.UnescapeString(s) {
		return "", internal_errors.Validation(field + " must be plain text, markup is not allowed")
	}
	return s, nil
}

func tooLong(field string, max int) error {
	return internal_errors.Validation(fmt.Sprintf("%s is too long (max %d characters)", field, max))
}

// Post normalizes data in place: trims text, defaults the name, drops an
// empty image url. A post must carry text or an image.
func (v *Validator) Post(data *domain.PostCreationData) error {
	var err error
	if data.Content, err = v.plainText("Content", data.Content); err != nil {
		return err
	}
	if utf8.RuneCountInString(data.Content) > v.cfg.MaxContentLength {
		return tooLong("Content", v.cfg.MaxContentLength)
	}

	if data.Name, err = v.plainText("Name", data.Name); err != nil {
		return err
	}
	if data.Name == "" {
		data.Name = domain.DefaultName
	}
	if utf8.RuneCountInString(data.Name) > v.cfg.MaxNameLength {
		return tooLong("Name", v.cfg.MaxNameLength)
	}

	if data.ImageURL != nil {
		url := strings.TrimSpace(*data.ImageURL)
		if url == "" {
			data.ImageURL = nil
		} else {
			if err := v.validate.Var(url, "url,startswith=http"); err != nil {
				return internal_errors.Validation("Image url is invalid")
			}
			data.ImageURL = &url
		}
	}

	if data.Content == "" && !data.HasImage() {
		return internal_errors.Validation("Post must have content or an image")
	}
	return nil
}

// Subject returns the trimmed subject, nil when it is absent or blank.
func (v *Validator) Subject(subject *domain.ThreadTitle) (*domain.ThreadTitle, error) {
	if subject == nil {
		return nil, nil
	}
	cleaned, err := v.plainText("Subject", *subject)
	if err != nil {
		return nil, err
	}
	if cleaned == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(cleaned) > v.cfg.MaxSubjectLength {
		return nil, tooLong("Subject", v.cfg.MaxSubjectLength)
	}
	return &cleaned, nil
}

func (v *Validator) BoardCode(code domain.BoardCode) error {
	if err := v.validate.Var(code, "required,alphanum,lowercase"); err != nil {
		return internal_errors.Validation("Board code must be lowercase letters and digits")
	}
	if len(code) > v.cfg.MaxBoardCode {
		return tooLong("Board code", v.cfg.MaxBoardCode)
	}
	return nil
}

// reservedCodes collide with fixed API paths.
var reservedCodes = map[domain.BoardCode]bool{"admin": true, "boards": true, "popular": true}

func (v *Validator) Board(data *domain.BoardCreationData) error {
	if err := v.BoardCode(data.Code); err != nil {
		return err
	}
	if reservedCodes[data.Code] {
		return internal_errors.Validation("Board code is reserved")
	}
	var err error
	if data.Name, err = v.plainText("Board name", data.Name); err != nil {
		return err
	}
	if data.Name == "" {
		return internal_errors.Validation("Board name is required")
	}
	if utf8.RuneCountInString(data.Name) > v.cfg.MaxSubjectLength {
		return tooLong("Board name", v.cfg.MaxSubjectLength)
	}
	data.Description, err = v.plainText("Description", data.Description)
	return err
}

func (v *Validator) ThreadNumber(n domain.ThreadNumber) error {
	if n < 1 {
		return internal_errors.Validation("Thread number must be positive")
	}
	return nil
}
