package models

import "time"

type PaymentStatus string

const (
	PaymentInProcess PaymentStatus = "IN_PROCESS"
	PaymentPaid      PaymentStatus = "PAID"
)

// Payment records a user buying a course. PaidMoney is in minor currency
// units and equals the course price at the time of purchase.
type Payment struct {
	ID        int64
	UserID    int64
	CourseID  int64
	PaidMoney int64
	Status    PaymentStatus
	Deleted   bool
	CreatedAt time.Time
}

func (p *Payment) GetID() int64 { return p.ID }
