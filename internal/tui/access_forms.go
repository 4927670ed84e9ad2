package tui

import (
	"fmt"
	"net/mail"
	"os"
	"strconv"
	"strings"

	"domain0/d0ctl/internal/domain"

	"github.com/charmbracelet/huh"
)

// RegisterForm asks for an email and a password typed twice.
func RegisterForm(prefillEmail string) (email, password string, err error) {
	email = prefillEmail
	var confirm string

	err = runForm(os.Getenv("ACCESSIBLE") != "",
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&email).
				Validate(func(v string) error {
					if _, err := mail.ParseAddress(strings.TrimSpace(v)); err != nil {
						return fmt.Errorf("enter a valid email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(huh.ValidateMinLength(6)),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm).
				Validate(func(v string) error {
					if v != password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}),
		),
	)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(email), password, nil
}

// GrantOpts is the result of the grant form.
type GrantOpts struct {
	UserID int64
	Role   domain.AccessRole
}

// GrantForm asks for the user and role of an access grant on domainName.
func GrantForm(domainName string, prefill GrantOpts) (*GrantOpts, error) {
	userID := ""
	if prefill.UserID > 0 {
		userID = strconv.FormatInt(prefill.UserID, 10)
	}
	role := prefill.Role

	roles := []domain.AccessRole{domain.AccessReadOnly, domain.AccessReadWrite, domain.AccessManager, domain.AccessOwner}
	options := make([]huh.Option[domain.AccessRole], 0, len(roles))
	for _, r := range roles {
		options = append(options, huh.NewOption(r.String(), r))
	}

	confirm := false
	err := runForm(os.Getenv("ACCESSIBLE") != "",
		huh.NewGroup(
			huh.NewInput().
				Title("User ID").
				Description("Numeric id of the user to grant access to").
				Value(&userID).
				Validate(validateUserID),
			huh.NewSelect[domain.AccessRole]().
				Title("Role on "+domainName).
				Options(options...).
				Value(&role),
		),
		huh.NewGroup(
			huh.NewConfirm().
				TitleFunc(func() string {
					return fmt.Sprintf("Grant %s on %s to user %s?", role, domainName, strings.TrimSpace(userID))
				}, []any{&userID, &role}).
				Value(&confirm),
		),
	)
	if err != nil {
		return nil, err
	}
	if !confirm {
		return nil, ErrAborted
	}

	id, _ := strconv.ParseInt(strings.TrimSpace(userID), 10, 64)
	return &GrantOpts{UserID: id, Role: role}, nil
}

func validateUserID(v string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("user ID must be a positive number")
	}
	return nil
}
