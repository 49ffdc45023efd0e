package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrFileNotFound    = errors.New("file not found")
	ErrNoInput         = errors.New("no input provided: please pass a file or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// Parse failure messages.
const (
	MsgInvalidInput       = "Invalid JSON input."
	MsgMinusNotDigit      = "- not followed by digit."
	MsgFractionNotDigit   = ". not followed by digit."
	MsgExponentNotDigit   = "e or E not followed by + or - or digit."
	MsgExpSignNotDigit    = "e+(-) or E+(-) not followed by digit."
	MsgUnterminatedString = "unterminated string"
	MsgMaxDepth           = "maximum nesting depth exceeded"
)

// ParseError is the single failure reported by the tokenizer and the parser.
// Offset is the rune offset at which the problem was detected.
type ParseError struct {
	Message string
	Offset  int
}

// NewParseError creates a ParseError with the given message.
func NewParseError(message string, offset int) *ParseError {
	return &ParseError{Message: message, Offset: offset}
}

func (e *ParseError) Error() string {
	return e.Message
}

// Is reports every ParseError as ErrInvalidJSON.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidJSON
}

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError of the same Type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			var parseErr *ParseError
			if errors.As(appErr.Err, &parseErr) {
				return fmt.Sprintf("JSON parsing error: %s: %s (at offset %d)", appErr.Message, parseErr.Message, parseErr.Offset)
			}
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf("JSON parsing error: %s (at offset %d)", parseErr.Message, parseErr.Offset)
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please pass a file or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
