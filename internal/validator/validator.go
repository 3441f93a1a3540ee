package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidSchedule   = errors.New("invalid payment schedule")
	ErrInvalidTxnType    = errors.New("invalid transaction type")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidLoanStatus = errors.New("invalid loan status")
	ErrInvalidTxnStatus  = errors.New("invalid transaction status")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var schedules = map[string]bool{
	"monthly":   true,
	"quarterly": true,
	"annually":  true,
	"one_time":  true,
}

var transactionTypes = map[string]bool{
	"deposit":    true,
	"withdrawal": true,
	"payment":    true,
}

// PATCH-settable workflow states; deletion has its own endpoint.
var loanStatuses = map[string]bool{
	"pending":  true,
	"approved": true,
	"denied":   true,
}

var transactionStatuses = map[string]bool{
	"pending":    true,
	"processing": true,
	"approved":   true,
	"denied":     true,
}

var roles = map[string]bool{
	"admin":      true,
	"officer":    true,
	"client":     true,
	"superadmin": true,
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateSchedule(sched string) error {
	if !schedules[sched] {
		return ErrInvalidSchedule
	}
	return nil
}

func ValidateTransactionType(txType string) error {
	if !transactionTypes[txType] {
		return ErrInvalidTxnType
	}
	return nil
}

func ValidateLoanStatus(status string) error {
	if !loanStatuses[status] {
		return ErrInvalidLoanStatus
	}
	return nil
}

func ValidateTransactionStatus(status string) error {
	if !transactionStatuses[status] {
		return ErrInvalidTxnStatus
	}
	return nil
}

func ValidateRole(role string) error {
	if !roles[role] {
		return ErrInvalidRole
	}
	return nil
}
