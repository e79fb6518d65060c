package service_test

import (
	"testing"

	"github.com/SergeiKhy/shop-directory/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := service.ParseID("id", " 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3", "1e3", "9223372036854775808"} {
		_, err := service.ParseID("id", raw)
		assert.ErrorIs(t, err, service.ErrValidation, raw)
	}
}
