package entities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"
)

func TestAppendPlasticAssignsSequentialIDs(t *testing.T) {
	doc := NewDocument()
	for i, company := range []string{"Acme", "Other", "Acme"} {
		p := doc.AppendPlastic(company, float64(i+1))
		if p.ID != i+1 {
			t.Fatalf("append %d: id=%d, want %d", i, p.ID, i+1)
		}
		if p.Recycled {
			t.Fatalf("append %d: new plastic must not be recycled", i)
		}
	}
	if len(doc.Plastics) != 3 {
		t.Fatalf("len=%d, want 3", len(doc.Plastics))
	}
	for i, p := range doc.Plastics {
		if p.ID != i+1 {
			t.Fatalf("plastics[%d].ID=%d", i, p.ID)
		}
	}
}

func TestAppendTransactionAssignsSequentialIDs(t *testing.T) {
	doc := NewDocument()
	date := FormatDate(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	for i := 0; i < 4; i++ {
		tx := doc.AppendTransaction(10, "succeeded", date)
		if tx.ID != i+1 {
			t.Fatalf("append %d: id=%d, want %d", i, tx.ID, i+1)
		}
		if tx.Amount != 10 || tx.Status != "succeeded" || tx.Date != date {
			t.Fatalf("unexpected record %+v", tx)
		}
	}
}

func TestPlasticsByCompany(t *testing.T) {
	doc := &Document{Plastics: []Plastic{
		{ID: 1, Company: "Acme", Quantity: 5, Recycled: false},
		{ID: 2, Company: "Other", Quantity: 2, Recycled: false},
	}}

	want := []PlasticReport{{Quantity: 5, Recycled: false}}
	seq := doc.PlasticsByCompany("Acme")

	// ranging twice must give the same result
	for pass := 0; pass < 2; pass++ {
		got := slices.Collect(seq)
		if !slices.Equal(got, want) {
			t.Fatalf("pass %d: got %+v, want %+v", pass, got, want)
		}
	}

	if got := slices.Collect(doc.PlasticsByCompany("Nobody")); len(got) != 0 {
		t.Fatalf("expected no rows, got %+v", got)
	}
}

func TestPlasticsByCompanyPreservesOrderAndStopsEarly(t *testing.T) {
	doc := NewDocument()
	doc.AppendPlastic("Acme", 1)
	doc.AppendPlastic("Other", 9)
	doc.AppendPlastic("Acme", 2)
	doc.AppendPlastic("Acme", 3)

	var got []float64
	for r := range doc.PlasticsByCompany("Acme") {
		got = append(got, r.Quantity)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []float64{1, 2}) {
		t.Fatalf("got %v", got)
	}
}

func TestEmptyDocumentSerializesEmptyArrays(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
	}{
		{"new", NewDocument()},
		{"normalized zero value", (&Document{}).Normalize()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.doc)
			if err != nil {
				t.Fatal(err)
			}
			if string(b) != `{"plastics":[],"transactions":[]}` {
				t.Fatalf("got %s", b)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	doc := NewDocument()
	doc.AppendPlastic("Acme", 1)
	c := doc.Clone()
	c.AppendPlastic("Acme", 2)
	c.Plastics[0].Quantity = 42

	if len(doc.Plastics) != 1 || doc.Plastics[0].Quantity != 1 {
		t.Fatalf("original mutated: %+v", doc.Plastics)
	}
}

func TestFormatDate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got := FormatDate(time.Date(2024, 1, 2, 5, 4, 5, 123456789, loc))
	if got != "2024-01-02T03:04:05.123Z" {
		t.Fatalf("got %s", got)
	}
}

func TestPaymentError(t *testing.T) {
	err := fmt.Errorf("charge: %w", NewPaymentError("Your card was declined.", context.Canceled))

	if !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("%v does not match ErrPaymentFailed", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("%v lost its cause", err)
	}

	var pe *PaymentError
	if !errors.As(err, &pe) || pe.Message != "Your card was declined." {
		t.Fatalf("message=%+v", pe)
	}
	if got := pe.Error(); got != "payment failed: Your card was declined." {
		t.Fatalf("Error()=%q", got)
	}
}
