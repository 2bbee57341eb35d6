package entity

import "time"

type MembershipStatus string

const (
	MembershipStatusActive   MembershipStatus = "active"
	MembershipStatusTrialing MembershipStatus = "trialing"
	MembershipStatusCanceled MembershipStatus = "canceled"
	MembershipStatusPastDue  MembershipStatus = "past_due"
)

type Membership struct {
	ID                 string
	Status             MembershipStatus
	CreatedAt          *time.Time
	CanceledAt         *time.Time
	RenewalPeriodStart *time.Time
	RenewalPeriodEnd   *time.Time
	PlanID             string
	Plan               *Plan
}
