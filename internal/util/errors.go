package util

import "errors"

var (
	ErrNoExtractableText = errors.New("no extractable text found in document")

	ErrQuotaExhausted = errors.New("provider quota exhausted")
	ErrRateLimited    = errors.New("provider rate limited")
)
