package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("S3cret!pass")
	require.NoError(t, err)
	require.NotEqual(t, "S3cret!pass", hash)

	assert.True(t, svc.Verify(hash, "S3cret!pass"))
	assert.False(t, svc.Verify(hash, "wrong"))
	assert.False(t, svc.Verify("not-a-hash", "S3cret!pass"))
}
