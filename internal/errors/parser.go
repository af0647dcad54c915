package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a code and a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a storage or transport error into something safe to
// show. context names the operation, e.g. "create application".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(errStr)
	}

	// postgres 23505, sqlite UNIQUE
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// postgres 23503
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{Code: ResourceConflict, Message: "Linked records prevent this change"}
	}

	// postgres 23502, sqlite NOT NULL
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return parseNotNullError(errStr)
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An external service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "applications") && strings.Contains(errLower, "email"):
		return ErrorInfo{Code: ApplicationExists, Message: "Application already exists for this email"}
	case strings.Contains(errLower, "agents") && strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AgentExists, Message: "An agent with this email already exists"}
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "This email is already in use"}
	case strings.Contains(errLower, "token"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Please try again"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: ValidationRequired, Message: "Email is required"}
	case strings.Contains(errLower, "name"):
		return ErrorInfo{Code: ValidationRequired, Message: "Name is required"}
	}
	return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "application"):
		return "Application not found"
	case strings.Contains(contextLower, "agent"):
		return "Agent not found"
	case strings.Contains(contextLower, "proposal"), strings.Contains(contextLower, "invite"):
		return "Invite not found"
	case strings.Contains(contextLower, "account"):
		return "Account not found"
	}
	return "The requested record was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Could not save. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Could not update. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Could not delete. Please try again later"
	}
	return "Something went wrong. Please try again later"
}

// ParseAndRespond parses err and writes it with statusCode.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   info.Code,
		Message: info.Message,
	})
}
