package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/erp/website/internal/domain/shared"
)

// Exit codes for sitectl.
const (
	ExitSuccess = 0
	ExitFailure = 1 // Upstream or unexpected failure
	ExitUsage   = 2 // Bad flags, arguments or configuration
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Invalid input reported by a service is a usage error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, shared.ErrInvalidInput) {
		return ExitUsage
	}
	return ExitFailure
}

// cliResponse is the JSON envelope of every command.
type cliResponse struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *cliError `json:"error,omitempty"`
}

type cliError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// formatter writes results as text or JSON.
type formatter struct {
	format string
	w      io.Writer
}

// success writes data; text mode delegates to text.
func (f *formatter) success(data any, text func(w io.Writer) error) error {
	if f.format == FormatJSON {
		return f.writeJSON(cliResponse{Status: "ok", Data: data})
	}
	return text(f.w)
}

// failure reports err in JSON mode and returns it for the exit code.
// In text mode main prints it.
func (f *formatter) failure(err error) error {
	if f.format != FormatJSON {
		return err
	}
	code := "ERROR"
	var de *shared.DomainError
	if errors.As(err, &de) {
		code = de.Code
	}
	if werr := f.writeJSON(cliResponse{Status: "error", Error: &cliError{Code: code, Message: err.Error()}}); werr != nil {
		return werr
	}
	return &ExitError{Code: GetExitCode(err), Message: "command failed", Err: err}
}

func (f *formatter) writeJSON(v any) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
