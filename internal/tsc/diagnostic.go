package tsc

import "fmt"

// Category is the severity of a diagnostic.
type Category int

const (
	CategoryWarning Category = iota
	CategoryError
	CategorySuggestion
	CategoryMessage
)

func (c Category) String() string {
	switch c {
	case CategoryWarning:
		return "warning"
	case CategorySuggestion:
		return "suggestion"
	case CategoryMessage:
		return "message"
	default:
		return "error"
	}
}

// Diagnostic codes produced while reading and expanding configuration.
const (
	CodeCannotReadFile    = 5083
	CodeFailedToParseFile = 5014
	CodeFileNotFound      = 6053
	CodeCircularExtends   = 18000
	CodeEmptyFilesList    = 18002
	CodeNoInputsFound     = 18003
)

// Diagnostic is a message reported by the compiler.
type Diagnostic struct {
	Code     int      `json:"code"`
	Category Category `json:"category"`
	File     string   `json:"file,omitempty"`
	Message  string   `json:"message"`
}

func (d Diagnostic) Error() string {
	return FormatDiagnostic(d)
}

// FormatDiagnostic renders d the way the compiler prints it on a terminal
// without colors.
func FormatDiagnostic(d Diagnostic) string {
	if d.File == "" {
		return fmt.Sprintf("%s TS%d: %s", d.Category, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s TS%d: %s", d.File, d.Category, d.Code, d.Message)
}

func errorf(code int, file, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Category: CategoryError,
		File:     file,
		Message:  fmt.Sprintf(format, args...),
	}
}
