package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	at := time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

	name, err := ObjectName("reviews/u1", "image/png", at)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "public/reviews/u1/"), name)
	assert.True(t, strings.HasSuffix(name, "-20240309150405.png"), name)

	other, err := ObjectName("reviews/u1", "image/png", at)
	require.NoError(t, err)
	assert.NotEqual(t, name, other)

	jpeg, err := ObjectName("profiles/u1", "image/jpeg", at)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(jpeg, ".jpg"))

	_, err = ObjectName("reviews/u1", "image/gif", at)
	assert.Error(t, err)
}
