package mutation

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/billing"
	"github.com/invoicedash/backend/internal/domain/finance"
	"github.com/invoicedash/backend/internal/domain/partner"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
)

type invoiceSchema struct {
	CustomerID string            `form:"customerId" validate:"required,uuid" msg:"Please select a customer."`
	Amount     valueobject.Cents `form:"amount" validate:"gt=0,lte=2147483647" msg:"gt=Please enter an amount greater than $0.;lte=Please enter an amount of at most $21,474,836.47."`
	Status     string            `form:"status" validate:"oneof=pending paid" msg:"Please select an invoice status."`
	Date       string            `form:"date" validate:"required,datetime=2006-01-02" msg:"required=Date is required;datetime=Date must be a valid date (YYYY-MM-DD)."`
}

type customerSchema struct {
	Name  string `form:"name" validate:"required" msg:"Name is required"`
	Email string `form:"email" validate:"required,email" msg:"required=Email is required;email=Invalid Email."`
}

type expenseSchema struct {
	Name        string            `form:"name" validate:"required" msg:"Name is required"`
	Type        string            `form:"type" validate:"required" msg:"Type is required"`
	Amount      valueobject.Cents `form:"amount" validate:"gt=0,lte=2147483647" msg:"gt=Please enter an amount greater than $0.;lte=Please enter an amount of at most $21,474,836.47."`
	ExpenseDate string            `form:"expense_date" validate:"required,datetime=2006-01-02" msg:"required=Date is required;datetime=Date must be a valid date (YYYY-MM-DD)."`
	Comments    string            `form:"comments" validate:"max=1000" msg:"Comments must be at most 1000 characters."`
}

type contactSchema struct {
	FirstName string `form:"first_name" validate:"required" msg:"First name is required"`
	LastName  string `form:"last_name" validate:"required" msg:"Last name is required"`
	Email     string `form:"email" validate:"required,email" msg:"required=Email is required;email=Invalid Email."`
	Phone     string `form:"phone" validate:"max=50" msg:"Phone must be at most 50 characters."`
	Comments  string `form:"comments" validate:"max=1000" msg:"Comments must be at most 1000 characters."`
}

// Schemas decodes and validates forms into domain entities
type Schemas struct {
	validator *Validator
	now       func() time.Time
	// DefaultImageURL is assigned to new customers without an uploaded avatar
	DefaultImageURL string
}

// NewSchemas creates the per-entity schemas
func NewSchemas(v *Validator, now func() time.Time) *Schemas {
	if now == nil {
		now = time.Now
	}
	return &Schemas{validator: v, now: now, DefaultImageURL: partner.DefaultImageURL}
}

// Invoice decodes an invoice form. Create forms send the date as invoicedate.
func (s *Schemas) Invoice(form Form, id uuid.UUID) (*billing.Invoice, FieldErrors) {
	in := invoiceSchema{
		CustomerID: form.Get("customerId"),
		Amount:     valueobject.ParseDollars(form.Get("amount")),
		Status:     form.Get("status"),
		Date:       form.First("date", "invoicedate"),
	}
	if errs := s.validator.Check(&in); !errs.Empty() {
		return nil, errs
	}

	date, _ := time.Parse(billing.DateLayout, in.Date)
	inv, err := billing.NewInvoice(id, uuid.MustParse(in.CustomerID),
		in.Amount, billing.InvoiceStatus(in.Status), date)
	if err != nil {
		return nil, domainFieldErrors(err)
	}
	return inv, nil
}

// Customer decodes a customer form
func (s *Schemas) Customer(form Form, id uuid.UUID) (*partner.Customer, FieldErrors) {
	in := customerSchema{Name: form.Get("name"), Email: form.Get("email")}
	if errs := s.validator.Check(&in); !errs.Empty() {
		return nil, errs
	}

	c, err := partner.NewCustomer(id, in.Name, in.Email, s.now().UTC())
	if err != nil {
		return nil, domainFieldErrors(err)
	}
	c.SetImage(s.DefaultImageURL)
	return c, nil
}

// Expense decodes an expense form
func (s *Schemas) Expense(form Form, id uuid.UUID) (*finance.Expense, FieldErrors) {
	in := expenseSchema{
		Name:        form.Get("name"),
		Type:        form.Get("type"),
		Amount:      valueobject.ParseDollars(form.Get("amount")),
		ExpenseDate: form.Get("expense_date"),
		Comments:    form.Get("comments"),
	}
	if errs := s.validator.Check(&in); !errs.Empty() {
		return nil, errs
	}

	date, _ := time.Parse(billing.DateLayout, in.ExpenseDate)
	e, err := finance.NewExpense(id, in.Name, in.Type, in.Amount, date, in.Comments)
	if err != nil {
		return nil, domainFieldErrors(err)
	}
	return e, nil
}

// Contact decodes a contact form
func (s *Schemas) Contact(form Form, id uuid.UUID) (*partner.Contact, FieldErrors) {
	in := contactSchema{
		FirstName: form.Get("first_name"),
		LastName:  form.Get("last_name"),
		Email:     form.Get("email"),
		Phone:     form.Get("phone"),
		Comments:  form.Get("comments"),
	}
	if errs := s.validator.Check(&in); !errs.Empty() {
		return nil, errs
	}

	c, err := partner.NewContact(id, in.FirstName, in.LastName, in.Email, in.Phone, in.Comments, s.now())
	if err != nil {
		return nil, domainFieldErrors(err)
	}
	return c, nil
}

// domainFieldErrors reports an entity rule the schema did not catch
func domainFieldErrors(err error) FieldErrors {
	errs := FieldErrors{}
	errs.Add("form", err.Error())
	return errs
}
