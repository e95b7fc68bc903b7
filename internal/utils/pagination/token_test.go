package pagination_test

import (
	"testing"

	"github.com/complianceos/cos_backend/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiFieldToken_RoundTrip(t *testing.T) {
	fields := []string{"2026-03-14T09:26:53.589793Z", "abc-123"}

	token := pagination.EncodeMultiFieldToken(fields...)
	decoded, err := pagination.DecodeMultiFieldToken(token)

	require.NoError(t, err)
	assert.Equal(t, fields, decoded)
}

func TestDecodeMultiFieldToken_Invalid(t *testing.T) {
	_, err := pagination.DecodeMultiFieldToken("not-base64!!!")
	assert.Error(t, err)
}
