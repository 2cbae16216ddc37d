package mutation

// FieldErrors maps a form field name to its validation messages
type FieldErrors map[string][]string

// Add appends a message for field
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Empty reports whether validation passed
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Kind names the entity a mutation applies to, as shown in messages
type Kind string

const (
	KindInvoice  Kind = "Invoice"
	KindCustomer Kind = "Customer"
	KindExpense  Kind = "Expense"
	KindContact  Kind = "Contact"
)

// Action is the type of write
type Action string

const (
	ActionCreate Action = "Create"
	ActionUpdate Action = "Update"
	ActionDelete Action = "Delete"
)

// Past returns the past tense used in success messages
func (a Action) Past() string {
	switch a {
	case ActionCreate:
		return "Created"
	case ActionUpdate:
		return "Updated"
	case ActionDelete:
		return "Deleted"
	default:
		return string(a)
	}
}

// Reason classifies an outcome
type Reason string

const (
	ReasonNone        Reason = "none"
	ReasonValidation  Reason = "validation"
	ReasonNotFound    Reason = "not_found"
	ReasonDuplicate   Reason = "duplicate"
	ReasonPersistence Reason = "persistence"
)

// Outcome is the result of a mutation. Success outcomes always carry a
// redirect target, failures never do.
type Outcome struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Errors     FieldErrors `json:"errors,omitempty"`
	RedirectTo string      `json:"redirect_to,omitempty"`
	Reason     Reason      `json:"reason"`
}

// Redirect builds a success outcome
func Redirect(path, message string) Outcome {
	return Outcome{Success: true, Message: message, RedirectTo: path, Reason: ReasonNone}
}

// Failure builds a failure outcome
func Failure(message string, errs FieldErrors, reason Reason) Outcome {
	return Outcome{Message: message, Errors: errs, Reason: reason}
}

func successMessage(action Action, kind Kind) string {
	return action.Past() + " " + string(kind) + "."
}

func validationMessage(action Action, kind Kind) string {
	return "Missing Fields. Failed to " + string(action) + " " + string(kind) + "."
}

func persistenceMessage(action Action, kind Kind) string {
	return "Database Error: Failed to " + string(action) + " " + string(kind) + "."
}

func notFoundMessage(kind Kind) string {
	return string(kind) + " not found."
}

const duplicateMessage = "Duplicate submission. Please wait for the previous request to finish."
