package entities

import (
	"errors"
	"iter"
	"time"
)

// Common errors
var (
	ErrStoreRead          = errors.New("store read failed")
	ErrStoreWrite         = errors.New("store write failed")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// PaymentError is a charge the provider refused or could not process.
// Message is the provider's own wording; it matches ErrPaymentFailed.
type PaymentError struct {
	Message string
	Err     error
}

// NewPaymentError wraps cause, which may be nil, with the provider message
func NewPaymentError(message string, cause error) *PaymentError {
	return &PaymentError{Message: message, Err: cause}
}

func (e *PaymentError) Error() string { return ErrPaymentFailed.Error() + ": " + e.Message }

func (e *PaymentError) Is(target error) bool { return target == ErrPaymentFailed }

func (e *PaymentError) Unwrap() error { return e.Err }

// DateLayout is the ISO-8601 layout used for transaction dates (UTC, millisecond precision).
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Plastic is one recycling submission made by a company.
type Plastic struct {
	ID       int     `json:"id"`
	Company  string  `json:"company"`
	Quantity float64 `json:"quantity"`
	Recycled bool    `json:"recycled"`
}

// Transaction is one payment recorded after a call to the payment provider.
type Transaction struct {
	ID     int     `json:"id"`
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
	Date   string  `json:"date"`
}

// PlasticReport is the per-record view returned by a company report.
type PlasticReport struct {
	Quantity float64 `json:"quantity"`
	Recycled bool    `json:"recycled"`
}

// Document holds all persisted state. It is always loaded and saved as a whole.
type Document struct {
	Plastics     []Plastic     `json:"plastics"`
	Transactions []Transaction `json:"transactions"`
}

// NewDocument returns an empty document whose sequences serialize as [].
func NewDocument() *Document {
	return &Document{
		Plastics:     []Plastic{},
		Transactions: []Transaction{},
	}
}

// Normalize replaces nil sequences with empty ones.
func (d *Document) Normalize() *Document {
	if d.Plastics == nil {
		d.Plastics = []Plastic{}
	}
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	return d
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Plastics:     make([]Plastic, len(d.Plastics)),
		Transactions: make([]Transaction, len(d.Transactions)),
	}
	copy(c.Plastics, d.Plastics)
	copy(c.Transactions, d.Transactions)
	return c
}

// AppendPlastic appends a new, not yet recycled submission and returns it.
// The id is the current length of the sequence plus one.
func (d *Document) AppendPlastic(company string, quantity float64) Plastic {
	p := Plastic{
		ID:       len(d.Plastics) + 1,
		Company:  company,
		Quantity: quantity,
		Recycled: false,
	}
	d.Plastics = append(d.Plastics, p)
	return p
}

// AppendTransaction appends a payment record and returns it.
// The status is stored verbatim.
func (d *Document) AppendTransaction(amount float64, status, date string) Transaction {
	t := Transaction{
		ID:     len(d.Transactions) + 1,
		Amount: amount,
		Status: status,
		Date:   date,
	}
	d.Transactions = append(d.Transactions, t)
	return t
}

// PlasticsByCompany yields the quantity and recycled flag of every submission
// made by company, in insertion order. The sequence can be ranged over more than once.
func (d *Document) PlasticsByCompany(company string) iter.Seq[PlasticReport] {
	return func(yield func(PlasticReport) bool) {
		for _, p := range d.Plastics {
			if p.Company != company {
				continue
			}
			if !yield(PlasticReport{Quantity: p.Quantity, Recycled: p.Recycled}) {
				return
			}
		}
	}
}

// FormatDate renders t the way transaction dates are stored.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
