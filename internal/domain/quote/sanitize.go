package quote

import (
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "github.com/yanqian/wirequote/pkg/errors"
)

const (
	minDescriptionLength = 10
	maxDescriptionLength = 1000
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SanitizeDescription collapses whitespace and truncates long descriptions.
func SanitizeDescription(description string) string {
	collapsed := strings.Join(strings.Fields(description), " ")
	if utf8.RuneCountInString(collapsed) <= maxDescriptionLength {
		return collapsed
	}
	return string([]rune(collapsed)[:maxDescriptionLength]) + "..."
}

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func normalizeRequest(req JobRequest) (JobRequest, error) {
	req.JobDescription = SanitizeDescription(req.JobDescription)
	if utf8.RuneCountInString(req.JobDescription) < minDescriptionLength {
		return JobRequest{}, apperrors.Wrap(apperrors.CodeInvalidInput, "jobDescription must be at least 10 characters", nil)
	}
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if req.CustomerEmail != "" && !ValidEmail(req.CustomerEmail) {
		return JobRequest{}, apperrors.Wrap(apperrors.CodeInvalidInput, "customerEmail is not a valid email address", nil)
	}
	return req, nil
}
