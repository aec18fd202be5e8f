package quote

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/wirequote/pkg/errors"
)

func TestSanitizeDescription(t *testing.T) {
	require.Equal(t, "Replace two sockets in kitchen", SanitizeDescription("  Replace two\n\tsockets   in kitchen "))

	long := strings.Repeat("é", 1200)
	got := SanitizeDescription(long)
	require.True(t, strings.HasSuffix(got, "..."))
	require.Equal(t, 1003, len([]rune(got)))
}

func TestValidEmail(t *testing.T) {
	require.True(t, ValidEmail("jo.bloggs+quotes@example.co.uk"))
	require.False(t, ValidEmail("jo@example"))
	require.False(t, ValidEmail("not an email"))
}

func TestNormalizeRequest(t *testing.T) {
	req, err := normalizeRequest(JobRequest{JobDescription: "  fit   an outdoor light ", CustomerEmail: " a@b.io "})
	require.NoError(t, err)
	require.Equal(t, "fit an outdoor light", req.JobDescription)
	require.Equal(t, "a@b.io", req.CustomerEmail)

	_, err = normalizeRequest(JobRequest{JobDescription: "   fix    it   "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = normalizeRequest(JobRequest{JobDescription: "Replace a broken socket", CustomerEmail: "nope"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}
