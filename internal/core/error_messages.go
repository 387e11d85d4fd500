package core

// Error codes quoted to support staff. Domain errors are matched by type
// first; storage failures fall through to case-insensitive text patterns.
//
// # Ledger Errors (INV001-INV099)
//
//	INV001 - Insufficient stock: withdrawal exceeds available blood
//	         Action: Reduce the quantity or record incoming stock first
//
// # Account Errors (USR001-USR099, AUTH001-AUTH099)
//
//	USR001 - Not found: account or record does not exist
//	AUTH001 - Unauthorized: the caller may not perform this action
//
// # Duplicate Errors (DUP001-DUP099)
//
//	DUP001 - Conflict: an account with this email already exists
//	DUP002 - Duplicate request: the idempotency key was already used
//	         Action: Check the ledger before retrying with a new key
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid input: a field is missing or malformed
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key            Patterns: "duplicate key", "e11000"
//	DB002 - Connection refused       Patterns: "connection refused", "no reachable servers"
//	DB003 - Connection reset         Patterns: "connection reset"
//	DB004 - Serialisation conflict   Patterns: "deadlock", "writeconflict", "could not serialize"
//	DB005 - Timeout                  Patterns: "context deadline exceeded", "timeout"
//	DB006 - Cancelled                Patterns: "context canceled"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests      Patterns: "rate limit"
//
// # Default (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.

import (
	"errors"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

var (
	msgInsufficientStock = UserMessage{
		Message: "Not enough blood in stock",
		Action:  "Reduce the quantity or record incoming stock first",
		Code:    "INV001",
	}
	msgDuplicateCall = UserMessage{
		Message: "Duplicate Request",
		Action:  "Check the ledger before retrying with a new key",
		Code:    "DUP002",
	}
	msgNotFound = UserMessage{
		Message: "User Not Found",
		Action:  "Check the email or id and try again",
		Code:    "USR001",
	}
	msgConflict = UserMessage{
		Message: "An account with this email already exists",
		Action:  "Sign in with the existing account",
		Code:    "DUP001",
	}
	msgUnauthorized = UserMessage{
		Message: "Auth Failed",
		Action:  "Sign in with an account allowed to do this",
		Code:    "AUTH001",
	}
	msgValidation = UserMessage{
		Message: "Invalid request",
		Action:  "Check the submitted fields and try again",
		Code:    "VAL001",
	}
)

// sentinelMessages is consulted before text patterns. Order matters:
// ErrDuplicateCall wraps ErrConflict and must be checked first.
var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{ErrInsufficientStock, msgInsufficientStock},
	{ErrDuplicateCall, msgDuplicateCall},
	{ErrConflict, msgConflict},
	{ErrNotFound, msgNotFound},
	{ErrUnauthorized, msgUnauthorized},
	{ErrValidation, msgValidation},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (lowercased) to user messages.
// First match wins, so specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{"duplicate key", UserMessage{"A record with this ID already exists", "Please try again", "DB001"}},
	{"e11000", UserMessage{"A record with this ID already exists", "Please try again", "DB001"}},
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB002"}},
	{"no reachable servers", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB002"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB003"}},
	{"deadlock", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB004"}},
	{"writeconflict", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB004"}},
	{"could not serialize", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB004"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Please try again", "DB005"}},
	{"timeout", UserMessage{"Request timed out", "Please try again", "DB005"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "DB006"}},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
//
//	msg := MapError(&InsufficientStockError{BloodGroup: GroupOPos, Available: 300})
//	// msg.Code == "INV001"
//	// msg.Message == "Only 300 ML of O+ is available"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		msg := msgInsufficientStock
		msg.Message = ise.Message()
		return msg
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.target) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}
