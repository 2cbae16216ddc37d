package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/billing"
	"github.com/invoicedash/backend/internal/domain/finance"
	"github.com/invoicedash/backend/internal/domain/partner"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
)

// InvoiceRow is one line of the invoices table
type InvoiceRow struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ImageURL      string    `json:"image_url"`
	Amount        int64     `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	Date          string    `json:"date"`
	Status        string    `json:"status"`
}

// InvoiceForm pre-fills the edit invoice form. Amount is in dollars.
type InvoiceForm struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	Date       string    `json:"date"`
}

// LatestInvoice is an entry of the latest invoices widget
type LatestInvoice struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	ImageURL string    `json:"image_url"`
	Amount   string    `json:"amount"`
}

// CustomerRow is one line of the customers table
type CustomerRow struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ImageURL      string    `json:"image_url"`
	TotalInvoices int64     `json:"total_invoices"`
	TotalPending  string    `json:"total_pending"`
	TotalPaid     string    `json:"total_paid"`
}

// CustomerForm pre-fills the edit customer form
type CustomerForm struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	ImageURL string    `json:"image_url"`
	Date     string    `json:"date"`
}

// CustomerOption is an entry of the customer select
type CustomerOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ExpenseRow is one line of the expenses table; also used to pre-fill the edit form
type ExpenseRow struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	ExpenseDate   string    `json:"expense_date"`
	Comments      string    `json:"comments"`
}

// ContactRow is one line of the contacts table
type ContactRow struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Comments  string    `json:"comments"`
	Created   time.Time `json:"created"`
}

// CardData backs the summary cards on the overview page
type CardData struct {
	NumberOfInvoices     int64  `json:"number_of_invoices"`
	NumberOfCustomers    int64  `json:"number_of_customers"`
	TotalPaidInvoices    string `json:"total_paid_invoices"`
	TotalPendingInvoices string `json:"total_pending_invoices"`
	TotalExpenses        string `json:"total_expenses"`
}

// Revenue is one month of the revenue chart
type Revenue struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
}

func toInvoiceRow(r billing.InvoiceRow) InvoiceRow {
	return InvoiceRow{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		ImageURL:      r.ImageURL,
		Amount:        int64(r.Amount),
		AmountDisplay: r.Amount.Display(),
		Date:          r.InvoiceDate.Format(billing.DateLayout),
		Status:        string(r.Status),
	}
}

func toInvoiceForm(inv *billing.Invoice) InvoiceForm {
	return InvoiceForm{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Amount:     inv.Amount.DollarsFloat(),
		Status:     string(inv.Status),
		Date:       inv.Date.Format(billing.DateLayout),
	}
}

func toLatestInvoice(l billing.LatestInvoice) LatestInvoice {
	return LatestInvoice{
		ID:       l.ID,
		Name:     l.Name,
		Email:    l.Email,
		ImageURL: l.ImageURL,
		Amount:   l.Amount.Display(),
	}
}

func toCustomerRow(r partner.CustomerRow) CustomerRow {
	return CustomerRow{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		ImageURL:      r.ImageURL,
		TotalInvoices: r.TotalInvoices,
		TotalPending:  valueobject.Cents(r.TotalPending).Display(),
		TotalPaid:     valueobject.Cents(r.TotalPaid).Display(),
	}
}

func toCustomerForm(c *partner.Customer) CustomerForm {
	return CustomerForm{ID: c.ID, Name: c.Name, Email: c.Email, ImageURL: c.ImageURL, Date: c.Date}
}

func toExpenseRow(e *finance.Expense) ExpenseRow {
	return ExpenseRow{
		ID:            e.ID,
		Name:          e.Name,
		Type:          e.Type,
		Amount:        e.Amount.DollarsFloat(),
		AmountDisplay: e.Amount.Display(),
		ExpenseDate:   e.ExpenseDate.Format(billing.DateLayout),
		Comments:      e.Comments,
	}
}

func toContactRow(c *partner.Contact) ContactRow {
	return ContactRow{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Comments:  c.Comments,
		Created:   c.Created,
	}
}
