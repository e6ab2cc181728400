package models

import (
	"errors"
	"testing"
)

func newTestBooking() *Booking {
	return &Booking{
		From:       "Paris",
		To:         "Lyon",
		Date:       "2025-06-01",
		Time:       "09:30",
		Passengers: 2,
		TripType:   TripTypePrivate,
		UserID:     1,
		PriceFrom:  "100",
		PriceTo:    "150",
	}
}

func TestValidatePassengers(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4} {
		if err := ValidatePassengers(n); err != nil {
			t.Fatalf("expected %d passengers to be valid: %v", n, err)
		}
	}
	for _, n := range []int{0, 5, -1} {
		err := ValidatePassengers(n)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument for %d passengers, got %v", n, err)
		}
	}
}

func TestApplyAppendsPendingApplicant(t *testing.T) {
	b := newTestBooking()
	if err := b.Apply(Applicant{DriverID: 10, Message: "hi", Price: 90}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(b.Applicants) != 1 {
		t.Fatalf("expected 1 applicant, got %d", len(b.Applicants))
	}
	if b.Applicants[0].Status != ApplicantStatusPending {
		t.Fatalf("expected pending status, got %s", b.Applicants[0].Status)
	}
}

func TestApplyTwiceSameDriverConflicts(t *testing.T) {
	b := newTestBooking()
	if err := b.Apply(Applicant{DriverID: 10, Price: 90}); err != nil {
		t.Fatalf("first Apply: %v", err)
	}

	err := b.Apply(Applicant{DriverID: 10, Price: 80})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on re-application, got %v", err)
	}
	if len(b.Applicants) != 1 {
		t.Fatalf("failed apply must not change applicant list, got %d entries", len(b.Applicants))
	}
}

func TestAcceptOfferMarksExactlyOneAccepted(t *testing.T) {
	b := newTestBooking()
	for _, id := range []uint{10, 11, 12} {
		if err := b.Apply(Applicant{DriverID: id, Price: 90}); err != nil {
			t.Fatalf("Apply driver %d: %v", id, err)
		}
	}

	if err := b.AcceptOffer(11); err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}

	if b.SelectedDriver == nil || b.SelectedDriver.DriverID != 11 {
		t.Fatalf("expected driver 11 selected, got %+v", b.SelectedDriver)
	}
	if !b.SelectedDriver.Confirmation {
		t.Fatal("expected selected driver confirmation to be set")
	}

	accepted := 0
	for _, applicant := range b.Applicants {
		switch applicant.Status {
		case ApplicantStatusAccepted:
			accepted++
			if applicant.DriverID != 11 {
				t.Fatalf("wrong driver accepted: %d", applicant.DriverID)
			}
		case ApplicantStatusRejected:
		default:
			t.Fatalf("applicant %d left in status %s", applicant.DriverID, applicant.Status)
		}
	}
	if accepted != 1 {
		t.Fatalf("expected exactly one accepted applicant, got %d", accepted)
	}
}

func TestAcceptOfferTwiceConflicts(t *testing.T) {
	b := newTestBooking()
	b.Apply(Applicant{DriverID: 10, Price: 90})
	b.Apply(Applicant{DriverID: 11, Price: 95})

	if err := b.AcceptOffer(10); err != nil {
		t.Fatalf("first AcceptOffer: %v", err)
	}

	// Second accept fails regardless of which driver is named.
	if err := b.AcceptOffer(11); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict accepting a different driver, got %v", err)
	}
	if err := b.AcceptOffer(10); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict re-accepting same driver, got %v", err)
	}
}

func TestAcceptOfferUnknownDriver(t *testing.T) {
	b := newTestBooking()
	b.Apply(Applicant{DriverID: 10, Price: 90})

	if err := b.AcceptOffer(99); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown driver, got %v", err)
	}
	if b.SelectedDriver != nil {
		t.Fatal("failed accept must not select a driver")
	}
}

func TestBookingLifecycleEndToEnd(t *testing.T) {
	b := newTestBooking()

	if err := ValidatePassengers(b.Passengers); err != nil {
		t.Fatalf("create validation: %v", err)
	}

	if err := b.Apply(Applicant{DriverID: 1, Message: "offer", Price: 90}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := b.Apply(Applicant{DriverID: 1, Price: 90}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate application, got %v", err)
	}
	if err := b.AcceptOffer(1); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if b.SelectedDriver.DriverID != 1 {
		t.Fatalf("expected driver 1 selected, got %d", b.SelectedDriver.DriverID)
	}
	if b.Applicants[0].Status != ApplicantStatusAccepted {
		t.Fatalf("expected applicant accepted, got %s", b.Applicants[0].Status)
	}
}
