package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"domain0/d0ctl/internal/dns/vendors"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/util"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when a user cancels an interactive flow.
var ErrAborted = errors.New("aborted by user")

// DomainLister fetches the domains a picker offers.
type DomainLister interface {
	List(ctx context.Context) ([]domain.Domain, error)
}

// CreateDomainForm runs a wizard that collects domain registration
// options. The ICP question is only asked when canEditICP is set.
func CreateDomainForm(prefill domain.CreateDomainOpts, canEditICP bool) (*domain.CreateDomainOpts, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	opts := prefill
	vendor := string(opts.Vendor)
	icp := opts.ICPReg == 1

	vendorOpts, vendorLabels := buildVendorOptions(vendors.List(), vendor)

	nameField := huh.NewInput().
		Title("Domain name").
		Value(&opts.Name).
		Validate(func(value string) error {
			return util.ValidateDomainName(strings.TrimSpace(value))
		})

	vendorField := huh.NewSelect[string]().
		Title("DNS vendor").
		Options(vendorOpts...).
		Value(&vendor).
		Height(selectHeight(len(vendorOpts), 8)).
		Validate(huh.ValidateNotEmpty())

	apiIDField := huh.NewInput().
		Title("Vendor API ID").
		Value(&opts.APIID).
		Validate(huh.ValidateNotEmpty())

	apiSecretField := huh.NewInput().
		Title("Vendor API secret").
		EchoMode(huh.EchoModePassword).
		Value(&opts.APISecret).
		Validate(huh.ValidateNotEmpty())

	groups := []*huh.Group{
		huh.NewGroup(nameField),
		huh.NewGroup(vendorField),
		huh.NewGroup(apiIDField, apiSecretField),
	}
	if canEditICP {
		groups = append(groups, huh.NewGroup(
			huh.NewConfirm().
				Title("ICP registered?").
				Value(&icp),
		))
	}

	confirm := false
	summaryNote := huh.NewNote().
		Title("Summary").
		DescriptionFunc(func() string {
			s := opts
			s.Name = strings.TrimSpace(s.Name)
			s.Vendor = domain.Vendor(vendor)
			s.ICPReg = boolToInt(icp)
			return buildDomainSummary(s, vendorLabels, canEditICP)
		}, &opts)

	groups = append(groups, huh.NewGroup(summaryNote,
		huh.NewConfirm().
			Title("Register this domain?").
			Value(&confirm),
	))

	if err := runForm(accessible, groups...); err != nil {
		return nil, err
	}
	if !confirm {
		return nil, ErrAborted
	}

	opts.Name = strings.TrimSpace(opts.Name)
	opts.Vendor = domain.Vendor(vendor)
	opts.APIID = strings.TrimSpace(opts.APIID)
	opts.ICPReg = boolToInt(icp)
	return &opts, nil
}

// SelectDomain fetches the caller's domains behind a spinner and asks the
// user to pick one.
func SelectDomain(lister DomainLister, title string) (*domain.Domain, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	var domains []domain.Domain
	fetchErr := spinner.New().
		Title("Fetching domains...").
		Accessible(accessible).
		Output(os.Stderr).
		ActionWithErr(func(ctx context.Context) error {
			var err error
			domains, err = lister.List(ctx)
			return err
		}).
		Run()
	if fetchErr != nil {
		if errors.Is(fetchErr, huh.ErrUserAborted) || errors.Is(fetchErr, context.Canceled) {
			return nil, ErrAborted
		}
		return nil, fetchErr
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("no domains available")
	}

	options := buildDomainOptions(domains)
	var selected string
	field := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&selected).
		Height(selectHeight(len(options), 12))

	if err := runForm(accessible, huh.NewGroup(field)); err != nil {
		return nil, err
	}
	for i := range domains {
		if fmt.Sprint(domains[i].ID) == selected {
			return &domains[i], nil
		}
	}
	return nil, fmt.Errorf("domain %q not found", selected)
}

// ConfirmDecision asks before accepting or rejecting a change request.
func ConfirmDecision(cr domain.ChangeRequest, accept bool) (bool, error) {
	verb := "Reject"
	if accept {
		verb = "Accept"
	}
	return Confirm(fmt.Sprintf("Change request #%d", cr.ID), ChangeSummary(cr), verb+" this change?")
}

// Confirm shows a note and a yes/no question. It defaults to no.
func Confirm(title, description, question string) (bool, error) {
	confirm := false
	err := runForm(os.Getenv("ACCESSIBLE") != "", huh.NewGroup(
		huh.NewNote().
			Title(title).
			Description(description),
		huh.NewConfirm().
			Title(question).
			Value(&confirm),
	))
	if err != nil {
		return false, err
	}
	return confirm, nil
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// --- Option builders ---

func buildVendorOptions(tags []domain.Vendor, selected string) ([]huh.Option[string], map[string]string) {
	options := make([]huh.Option[string], 0, len(tags))
	labels := make(map[string]string, len(tags))

	for _, tag := range tags {
		value := string(tag)
		label := vendors.Get(tag).DisplayName
		options = append(options, huh.NewOption(label, value))
		labels[value] = label
	}

	if selected != "" {
		options = ensureOption(options, labels, selected, "Custom: "+selected)
	}

	return options, labels
}

func buildDomainOptions(domains []domain.Domain) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(domains))
	for _, d := range domains {
		options = append(options, huh.NewOption(domainOptionLabel(d), fmt.Sprint(d.ID)))
	}
	return options
}

func domainOptionLabel(d domain.Domain) string {
	parts := []string{d.Name}
	if d.Vendor != "" {
		parts = append(parts, vendors.Get(d.Vendor).DisplayName)
	}
	if d.HasICP() {
		parts = append(parts, "ICP")
	}
	return strings.Join(parts, " - ")
}

func ensureOption(options []huh.Option[string], labels map[string]string, value string, label string) []huh.Option[string] {
	if value == "" {
		return options
	}
	if _, ok := labels[value]; ok {
		return options
	}
	options = append(options, huh.NewOption(label, value))
	labels[value] = label
	return options
}

// --- Summaries ---

func buildDomainSummary(opts domain.CreateDomainOpts, vendorLabels map[string]string, showICP bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Name: %s\n", opts.Name)
	fmt.Fprintf(&b, "Vendor: %s\n", labelFor(vendorLabels, string(opts.Vendor), "Not selected"))
	fmt.Fprintf(&b, "API ID: %s\n", labelFor(nil, opts.APIID, "Not set"))
	if opts.APISecret != "" {
		fmt.Fprintf(&b, "API secret: %s\n", strings.Repeat("*", min(len(opts.APISecret), 12)))
	}
	if showICP {
		fmt.Fprintf(&b, "ICP registered: %t\n", opts.ICPReg == 1)
	}

	return strings.TrimSpace(b.String())
}

// ChangeSummary renders a change request for confirmation prompts.
func ChangeSummary(cr domain.ChangeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Domain: %d\n", cr.DomainID)
	fmt.Fprintf(&b, "Requested by: user %d\n", cr.UserID)
	fmt.Fprintf(&b, "Action: %s\n", cr.ActionType)
	fmt.Fprintf(&b, "Status: %s\n", cr.ActionStatus)
	if cr.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", cr.Reason)
	}
	if !cr.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Created: %s\n", cr.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return strings.TrimSpace(b.String())
}

func labelFor(labels map[string]string, value string, emptyLabel string) string {
	if value == "" {
		return emptyLabel
	}
	if labels != nil {
		if label, ok := labels[value]; ok {
			return label
		}
	}
	return value
}

func selectHeight(optionCount, max int) int {
	if optionCount < max {
		return optionCount
	}
	return max
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
