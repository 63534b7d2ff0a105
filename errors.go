package shelf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/shelf/i18n"
)

// Issue codes
const (
	CodeInvalidType   = "invalid_type"
	CodeUpgradeFailed = "upgrade_failed"
	CodeParseError    = "parse_error"
)

// ErrNilUpgrade is the cause recorded when an UpgradeFunc returns a nil
// record without an error.
var ErrNilUpgrade = errors.New("shelf: upgrade returned nil record")

// Issue represents a single decode failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/owner).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g., {"version":"1.0.0"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of decode errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Cause != nil {
			fmt.Fprintf(b, ": %v", it.Cause)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes each issue cause so errors.Is can match sentinel causes.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func newIssue(p pointer, code string, cause error, msgData map[string]string) Issue {
	params := make(map[string]any, len(msgData))
	for k, v := range msgData {
		params[k] = v
	}
	return Issue{
		Path:    p.String(),
		Code:    code,
		Message: i18n.T(code, msgData),
		Cause:   cause,
		Params:  params,
	}
}
