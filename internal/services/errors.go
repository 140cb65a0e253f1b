package services

import "errors"

var (
	ErrEmptyPrompt      = errors.New("prompt is empty")
	ErrNoCredential     = errors.New("no API key configured")
	ErrEmptyCredential  = errors.New("service and API key are required")
	ErrCompletionFailed = errors.New("completion failed")
	ErrEmptyMessage     = errors.New("message content is empty")
	ErrInvalidSetting   = errors.New("invalid setting")
)
