package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wichananm65/hot-sauce-storefront/internal/crm"
	"github.com/wichananm65/hot-sauce-storefront/internal/user"
)

// Directory is where accounts live. Lookup and Verify return ErrUserNotFound
// for unknown emails; Verify returns ErrInvalidPassword; Create returns
// ErrUserExists or ErrCreateFailed. Any other error is a transport failure.
type Directory interface {
	Lookup(ctx context.Context, email string) (UserData, error)
	Verify(ctx context.Context, email, password string) (UserData, error)
	Create(ctx context.Context, email, password, firstName, lastName string) (UserData, error)
}

var profileProperties = []string{"email", "firstname", "lastname", "createdate", "lastmodifieddate"}

// CRMDirectory keeps accounts as CRM contacts. The CRM stores no
// credentials, so any non-blank password is accepted.
type CRMDirectory struct {
	client *crm.Client
}

func NewCRMDirectory(client *crm.Client) *CRMDirectory {
	return &CRMDirectory{client: client}
}

func (d *CRMDirectory) Lookup(ctx context.Context, email string) (UserData, error) {
	contact, found, err := d.client.FindByEmail(ctx, email, profileProperties...)
	if err != nil {
		return UserData{}, err
	}
	if !found {
		return UserData{}, ErrUserNotFound
	}
	return fromContact(email, contact), nil
}

func (d *CRMDirectory) Verify(ctx context.Context, email, password string) (UserData, error) {
	u, err := d.Lookup(ctx, email)
	if err != nil {
		return UserData{}, err
	}
	if strings.TrimSpace(password) == "" {
		return UserData{}, ErrInvalidPassword
	}
	return u, nil
}

func (d *CRMDirectory) Create(ctx context.Context, email, _ string, firstName, lastName string) (UserData, error) {
	if _, found, err := d.client.FindByEmail(ctx, email, "email"); err != nil {
		return UserData{}, err
	} else if found {
		return UserData{}, ErrUserExists
	}

	contact, err := d.client.Create(ctx, map[string]string{
		"email":     email,
		"firstname": firstName,
		"lastname":  lastName,
	})
	if err != nil {
		return UserData{}, err
	}
	if contact.ID == "" {
		return UserData{}, ErrCreateFailed
	}
	now := time.Now().UTC()
	return UserData{Email: email, FirstName: firstName, LastName: lastName, CreatedAt: now, LastModified: now}, nil
}

func fromContact(email string, c crm.Contact) UserData {
	u := UserData{Email: email, FirstName: c.Property("firstname"), LastName: c.Property("lastname")}
	u.CreatedAt, _ = time.Parse(time.RFC3339, c.Property("createdate"))
	u.LastModified, _ = time.Parse(time.RFC3339, c.Property("lastmodifieddate"))
	return u
}

// LocalDirectory keeps accounts in the service's own user store with bcrypt
// password hashes.
type LocalDirectory struct {
	users *user.Service
}

func NewLocalDirectory(users *user.Service) *LocalDirectory {
	return &LocalDirectory{users: users}
}

func (d *LocalDirectory) Lookup(ctx context.Context, email string) (UserData, error) {
	u, err := d.users.GetByEmail(ctx, email)
	return fromUser(u), translate(err)
}

func (d *LocalDirectory) Verify(ctx context.Context, email, password string) (UserData, error) {
	u, err := d.users.Authenticate(ctx, email, password)
	return fromUser(u), translate(err)
}

func (d *LocalDirectory) Create(ctx context.Context, email, password, firstName, lastName string) (UserData, error) {
	u, err := d.users.Register(ctx, email, password, firstName, lastName)
	return fromUser(u), translate(err)
}

func fromUser(u user.User) UserData {
	return UserData{Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, CreatedAt: u.CreatedAt, LastModified: u.UpdatedAt}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, user.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, user.ErrInvalidCredentials):
		return ErrInvalidPassword
	case errors.Is(err, user.ErrEmailExists):
		return ErrUserExists
	default:
		return err
	}
}
