package service

import "errors"

var (
	ErrCompanyIDRequired = errors.New("whop company id is not configured")
)
