package util

import "errors"

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrAlreadyClaimed     = errors.New("assessment already claimed by another account")
	ErrCaptchaFailed      = errors.New("bot check failed")
	ErrPersistence        = errors.New("failed to save assessment")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
)
