package appointment

import "github.com/BruksfildServices01/advoga-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending         Status = "pending"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusPaid            Status = "paid"
	StatusConfirmed       Status = "confirmed"
	StatusFinalized       Status = "finalized"
	StatusCancelled       Status = "cancelled"
)

// transitions é o grafo dirigido do ciclo de vida; finalized e cancelled são terminais.
var transitions = map[Status][]Status{
	StatusPending:         {StatusAwaitingPayment, StatusCancelled},
	StatusAwaitingPayment: {StatusPaid, StatusCancelled},
	StatusPaid:            {StatusConfirmed, StatusFinalized, StatusCancelled},
	StatusConfirmed:       {StatusFinalized, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAwaitingPayment, StatusPaid,
		StatusConfirmed, StatusFinalized, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusFinalized || s == StatusCancelled
}

// Occupies informa se o agendamento ainda ocupa o horário na agenda.
func (s Status) Occupies() bool {
	return s != StatusCancelled
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ===============================
// Error codes
// ===============================

const (
	ErrNotFound           = "appointment_not_found"
	ErrInvalidState       = "invalid_state"
	ErrInvalidPrice       = "invalid_price"
	ErrInvalidSchedule    = "invalid_schedule"
	ErrSlotTaken          = "slot_taken"
	ErrSlotUnavailable    = "slot_unavailable"
	ErrPageNotFound       = "page_not_found"
	ErrPageInactive       = "page_inactive"
	ErrForbidden          = "forbidden"
	ErrInvalidAssignee    = "invalid_assignee"
	ErrConcurrentUpdate   = "concurrent_update"
	ErrPaymentNotApproved = "payment_not_approved"
	ErrPaymentMismatch    = "payment_mismatch"
	ErrMissingContact     = "missing_contact"
)

// ===============================
// Validations
// ===============================

func assertTransition(current, next Status) error {
	if !CanTransition(current, next) {
		return httperr.ErrBusiness(ErrInvalidState)
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
