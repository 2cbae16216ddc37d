package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared"
)

// DefaultImageURL is the avatar assigned to customers created without an upload
const DefaultImageURL = "/customers/amy-burns.png"

// Customer is someone invoices are issued to
type Customer struct {
	shared.BaseEntity
	Name     string
	Email    string
	ImageURL string
	// Date the customer was registered, YYYY-MM-DD
	Date string
}

// NewCustomer creates a customer registered on the given day
func NewCustomer(id uuid.UUID, name, email string, now time.Time) (*Customer, error) {
	c := &Customer{
		BaseEntity: shared.BaseEntity{ID: id},
		ImageURL:   DefaultImageURL,
		Date:       now.Format("2006-01-02"),
	}
	if err := c.Update(name, email); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the name and email. Image and registration date are kept.
func (c *Customer) Update(name, email string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Customer email is invalid")
	}
	c.Name = name
	c.Email = email
	return nil
}

// SetImage replaces the avatar URL; an empty value restores the default
func (c *Customer) SetImage(url string) {
	if url == "" {
		url = DefaultImageURL
	}
	c.ImageURL = url
}

// CustomerRow is one line of the customers table with invoice aggregates
type CustomerRow struct {
	ID            uuid.UUID
	Name          string
	Email         string
	ImageURL      string
	TotalInvoices int64
	TotalPending  int64
	TotalPaid     int64
}

// CustomerOption is an entry of the customer dropdown on invoice forms
type CustomerOption struct {
	ID   uuid.UUID
	Name string
}
