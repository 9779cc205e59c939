package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	svc := NewBcryptService(4)

	hash, err := svc.Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.NoError(t, svc.Verify(hash, "correct-horse"))
	assert.Error(t, svc.Verify(hash, "wrong"))
}

func TestHashesAreSalted(t *testing.T) {
	svc := NewBcryptService(4)

	first, err := svc.Hash("correct-horse")
	require.NoError(t, err)
	second, err := svc.Hash("correct-horse")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	svc := NewBcryptService(99)

	hash, err := svc.Hash("correct-horse")
	require.NoError(t, err)
	assert.NoError(t, svc.Verify(hash, "correct-horse"))
}
