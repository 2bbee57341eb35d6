package entity

import "time"

type Payment struct {
	ID          string
	CreatedAt   *time.Time
	AmountCents int64
	ProductID   string
}
