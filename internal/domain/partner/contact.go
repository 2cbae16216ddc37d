package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared"
)

// Contact is an address book entry kept next to customers
type Contact struct {
	shared.BaseEntity
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Comments  string
	Created   time.Time
}

// NewContact creates a contact stamped with the creation time
func NewContact(id uuid.UUID, firstName, lastName, email, phone, comments string, now time.Time) (*Contact, error) {
	c := &Contact{BaseEntity: shared.BaseEntity{ID: id}, Created: now}
	if err := c.Update(firstName, lastName, email, phone, comments); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields; Created is never touched
func (c *Contact) Update(firstName, lastName, email, phone, comments string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return shared.NewDomainError("INVALID_NAME", "Contact first and last name are required")
	}
	c.FirstName = firstName
	c.LastName = lastName
	c.Email = strings.TrimSpace(email)
	c.Phone = strings.TrimSpace(phone)
	c.Comments = strings.TrimSpace(comments)
	return nil
}

// FullName joins first and last name
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
