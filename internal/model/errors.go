package model

import "errors"

// Common errors used across the application
var (
	// Input errors
	ErrMissingInput  = errors.New("input data is missing")
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("username already taken")

	// Credential errors
	ErrWrongPassword      = errors.New("wrong password")
	ErrWrongAdminPassword = errors.New("wrong admin password")

	// Credit errors
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrCreditLimit         = errors.New("balance would exceed the credit limit")

	// Scoring errors
	ErrScorerFailed = errors.New("similarity scorer failed")
)
