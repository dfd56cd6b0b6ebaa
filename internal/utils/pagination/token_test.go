package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffgoval/arena-sub003/internal/utils/pagination"
)

func TestTimeIDTokenRoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 15, 10, 30, 45, 123456789, time.UTC)
	id := "c3a1f0d2-9b1e-4c55-8f0a-b9e2f1a6c001"

	token := pagination.EncodeTimeIDToken(ts, id)
	gotTS, gotID, err := pagination.DecodeTimeIDToken(token)

	require.NoError(t, err)
	assert.True(t, ts.Equal(gotTS))
	assert.Equal(t, id, gotID)
}

func TestTimeIDToken_PreservesNanosecondPrecision(t *testing.T) {
	ts := time.Now().UTC()

	token := pagination.EncodeTimeIDToken(ts, "id")
	gotTS, _, err := pagination.DecodeTimeIDToken(token)

	require.NoError(t, err)
	assert.True(t, ts.Equal(gotTS), "cursor must not lose precision, or pages will overlap")
}

func TestDecodeTimeIDToken_RejectsGarbage(t *testing.T) {
	_, _, err := pagination.DecodeTimeIDToken("not-base64!!!")
	assert.Error(t, err)
}

func TestDecodeTimeIDToken_RejectsMissingSeparator(t *testing.T) {
	token := pagination.EncodeMultiFieldToken("just-one-field")
	_, _, err := pagination.DecodeTimeIDToken(token)
	assert.Error(t, err)
}

func TestMultiFieldTokenRoundTrip(t *testing.T) {
	fields := []string{"2025-06-15T10:30:45Z", "entry-1", "extra"}

	token := pagination.EncodeMultiFieldToken(fields...)
	got, err := pagination.DecodeMultiFieldToken(token)

	require.NoError(t, err)
	assert.Equal(t, fields, got)
}
