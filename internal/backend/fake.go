package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"domain0/d0ctl/internal/api"
	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/services/auth"
)

// Fake is an in-memory API for tests. Mutations apply to its state unless
// DeferMessage is set, in which case they come back pending approval and
// change nothing.
type Fake struct {
	mu sync.Mutex

	Domains  []domain.Domain
	Records  map[int64][]dnsdomain.Record
	Grants   map[int64][]domain.AccessGrant
	Applied  []domain.ChangeRequest
	Approval []domain.ChangeRequest
	Accounts []domain.User

	// User is the account Login and Register issue tokens for.
	User auth.Claims
	// Password, when set, is the only password Login accepts.
	Password string

	// DeferMessage turns every mutation into a pending approval.
	DeferMessage string
	// Err fails every call.
	Err error

	// Calls logs every call as "<method> <args>".
	Calls []string

	nextID int
}

var _ API = (*Fake)(nil)

// NewFake returns an empty fake. Created resources get ids from 1001.
func NewFake() *Fake {
	return &Fake{
		Records: map[int64][]dnsdomain.Record{},
		Grants:  map[int64][]domain.AccessGrant{},
		User:    auth.Claims{Name: "alice", Email: "alice@example.com", Role: domain.RoleContributor},
		nextID:  1000,
	}
}

// Factory returns a factory that always yields f.
func (f *Fake) Factory() Factory {
	return func(string, api.TokenSource, time.Duration) (API, error) { return f, nil }
}

// IssueToken signs a session token for the fake's user valid for ttl.
func (f *Fake) IssueToken(ttl time.Duration) string {
	claims := f.User
	if claims.Subject == "" {
		claims.Subject = "42"
	}
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("fake"))
	if err != nil {
		panic(err)
	}
	return token
}

func (f *Fake) record(format string, args ...any) error {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
	return f.Err
}

func (f *Fake) ack() (*api.Response, error) {
	if f.DeferMessage != "" {
		return f.deferred(), nil
	}
	return &api.Response{HTTPStatus: http.StatusOK, Status: http.StatusOK}, nil
}

func (f *Fake) deferred() *api.Response {
	data, _ := json.Marshal(f.DeferMessage)
	return &api.Response{HTTPStatus: http.StatusOK, Status: api.StatusPendingApproval, Data: data}
}

func notFound(what string) *api.Response {
	return &api.Response{HTTPStatus: http.StatusNotFound, Status: http.StatusNotFound, Errors: what + " not found"}
}

// --- Users ---

func (f *Fake) Login(_ context.Context, username, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("login %s", username); err != nil {
		return "", err
	}
	if f.Password != "" && password != f.Password {
		return "", fmt.Errorf("login failed: %w", domain.ErrUnauthorized)
	}
	return f.IssueToken(time.Hour), nil
}

func (f *Fake) Register(_ context.Context, email, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("register %s", email); err != nil {
		return "", err
	}
	f.User.Email = email
	return f.IssueToken(time.Hour), nil
}

func (f *Fake) ListUsers(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list-users"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Accounts), nil
}

func (f *Fake) GetUser(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("get-user %d", id); err != nil {
		return nil, err
	}
	for _, u := range f.Accounts {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("failed to get user %d: %w", id, domain.ErrNotFound)
}

func (f *Fake) UpdateUser(_ context.Context, id int64, opts domain.UpdateUserOpts) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update-user %d", id); err != nil {
		return nil, err
	}
	if f.DeferMessage != "" {
		return f.deferred(), nil
	}
	i := slices.IndexFunc(f.Accounts, func(u domain.User) bool { return u.ID == id })
	if i < 0 {
		return notFound("user"), nil
	}
	u := &f.Accounts[i]
	if opts.Name != "" {
		u.Name = opts.Name
	}
	if opts.Email != "" {
		u.Email = opts.Email
	}
	if opts.StudentID != "" {
		u.StudentID = domain.NullString{String: opts.StudentID, Valid: true}
	}
	if opts.Role != nil {
		u.Role = *opts.Role
	}
	return f.ack()
}

func (f *Fake) DeleteUser(_ context.Context, id int64) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete-user %d", id); err != nil {
		return nil, err
	}
	if f.DeferMessage != "" {
		return f.deferred(), nil
	}
	n := len(f.Accounts)
	f.Accounts = slices.DeleteFunc(f.Accounts, func(u domain.User) bool { return u.ID == id })
	if len(f.Accounts) == n {
		return notFound("user"), nil
	}
	return f.ack()
}

// --- Domains ---

func (f *Fake) ListDomains(context.Context) ([]domain.Domain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list-domains"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Domains), nil
}

func (f *Fake) GetDomain(_ context.Context, id int64) (*domain.Domain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("get-domain %d", id); err != nil {
		return nil, err
	}
	for _, d := range f.Domains {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("domain %d: %w", id, domain.ErrNotFound)
}

func (f *Fake) CreateDomain(_ context.Context, opts domain.CreateDomainOpts) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create-domain %s", opts.Name); err != nil {
		return nil, err
	}
	if f.DeferMessage != "" {
		return f.deferred(), nil
	}
	f.nextID++
	f.Domains = append(f.Domains, domain.Domain{ID: int64(f.nextID), Name: opts.Name, Vendor: opts.Vendor, ICPReg: opts.ICPReg})
	return f.ack()
}

func (f *Fake) UpdateDomain(_ context.Context, id int64, opts domain.UpdateDomainOpts) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update-domain %d", id); err != nil {
		return nil, err
	}
	i := slices.IndexFunc(f.Domains, func(d domain.Domain) bool { return d.ID == id })
	if i < 0 {
		return notFound("domain"), nil
	}
	if f.DeferMessage != "" {
		return f.deferred(), nil
	}
	if opts.Name != "" {
		f.Domains[i].Name = opts.Name
	}
	if opts.Vendor != "" {
		f.Domains[i].Vendor = opts.Vendor
	}
	return f.ack()
}

func (f *Fake) DeleteDomain(_ context.Context, id int64) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete-domain %d", id); err != nil {
		return nil, err
	}
	i := slices.IndexFunc(f.Domains, func(d domain.Domain) bool { return d.ID == id })
	if i < 0 {
		return notFound("domain"), nil
	}
	if f.DeferMessage != "" {
		return f.deferred(), nil
	}
	f.Domains = slices.Delete(f.Domains, i, i+1)
	return f.ack()
}

// --- Records ---

func (f *Fake) ListRecords(_ context.Context, domainID int64) ([]dnsdomain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list-records %d", domainID); err != nil {
		return nil, err
	}
	return slices.Clone(f.Records[domainID]), nil
}

func (f *Fake) CreateRecord(_ context.Context, domainID int64, opts dnsdomain.RecordOpts) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create-record %d %s", domainID, opts.Name); err != nil {
		return nil, err
	}
	if f.DeferMessage != "" {
		return f.deferred(), nil
	}
	f.nextID++
	rec := dnsdomain.Record{
		ID:       strconv.Itoa(f.nextID),
		Name:     opts.Name,
		Type:     opts.Type,
		Content:  opts.Content,
		TTL:      opts.TTL,
		Priority: opts.Priority,
		Comment:  opts.Comment,
		Proxied:  opts.Proxied,
	}
	f.Records[domainID] = append(f.Records[domainID], rec)
	return recordResponse(http.StatusCreated, rec), nil
}

func (f *Fake) UpdateRecord(_ context.Context, domainID int64, rec dnsdomain.Record) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update-record %d %s", domainID, rec.ID); err != nil {
		return nil, err
	}
	list := f.Records[domainID]
	i := slices.IndexFunc(list, func(r dnsdomain.Record) bool { return r.ID == rec.ID })
	if i < 0 {
		return notFound("record"), nil
	}
	if f.DeferMessage != "" {
		return f.deferred(), nil
	}
	list[i] = rec
	return recordResponse(http.StatusOK, rec), nil
}

func (f *Fake) DeleteRecord(_ context.Context, domainID int64, recordID string) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete-record %d %s", domainID, recordID); err != nil {
		return nil, err
	}
	list := f.Records[domainID]
	i := slices.IndexFunc(list, func(r dnsdomain.Record) bool { return r.ID == recordID })
	if i < 0 {
		return notFound("record"), nil
	}
	if f.DeferMessage != "" {
		return f.deferred(), nil
	}
	f.Records[domainID] = slices.Delete(list, i, i+1)
	return f.ack()
}

func recordResponse(status int, rec dnsdomain.Record) *api.Response {
	data, _ := json.Marshal(rec)
	return &api.Response{HTTPStatus: status, Status: status, Data: data}
}

// --- Access ---

func (f *Fake) ListAccess(_ context.Context, domainID int64) ([]domain.AccessGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list-access %d", domainID); err != nil {
		return nil, err
	}
	return slices.Clone(f.Grants[domainID]), nil
}

func (f *Fake) GrantAccess(_ context.Context, domainID, userID int64, role domain.AccessRole) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("grant %d %d %s", domainID, userID, role); err != nil {
		return nil, err
	}
	if f.DeferMessage != "" {
		return f.deferred(), nil
	}
	grants := f.Grants[domainID]
	if i := slices.IndexFunc(grants, func(g domain.AccessGrant) bool { return g.UserID == userID }); i >= 0 {
		grants[i].Role = role
	} else {
		f.Grants[domainID] = append(grants, domain.AccessGrant{DomainID: domainID, UserID: userID, Role: role})
	}
	return f.ack()
}

func (f *Fake) RevokeAccess(_ context.Context, domainID, userID int64) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("revoke %d %d", domainID, userID); err != nil {
		return nil, err
	}
	if f.DeferMessage != "" {
		return f.deferred(), nil
	}
	f.Grants[domainID] = slices.DeleteFunc(f.Grants[domainID], func(g domain.AccessGrant) bool { return g.UserID == userID })
	return f.ack()
}

// --- Change requests ---

func (f *Fake) ListAppliedChanges(context.Context) ([]domain.ChangeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list-applied"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Applied), nil
}

func (f *Fake) ListPendingChanges(context.Context) ([]domain.ChangeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list-pending"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Approval), nil
}

// DecideChange removes the request from the approval list once decided.
func (f *Fake) DecideChange(_ context.Context, id int64, decision api.Decision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("decide %d %s", id, decision); err != nil {
		return err
	}
	i := slices.IndexFunc(f.Approval, func(c domain.ChangeRequest) bool { return c.ID == id })
	if i < 0 {
		return fmt.Errorf("change %d: %w", id, domain.ErrNotFound)
	}
	f.Approval = slices.Delete(f.Approval, i, i+1)
	return nil
}
