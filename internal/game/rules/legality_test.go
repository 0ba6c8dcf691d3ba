package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllReturnsFirstFailure(t *testing.T) {
	calls := 0
	result := All(
		func() LegalityResult { calls++; return Legal() },
		func() LegalityResult { calls++; return Illegal("User is not the active player", "user", "Bob") },
		func() LegalityResult { calls++; return Illegal("never reached") },
	)

	assert.False(t, result.Legal)
	assert.Equal(t, "User is not the active player", result.Reason)
	assert.Equal(t, "Bob", result.Details["user"])
	assert.Equal(t, 2, calls)
}

func TestAllPasses(t *testing.T) {
	result := All(Legal, Legal)
	assert.True(t, result.Legal)
	assert.Empty(t, result.Details)
}

func TestLegalityResultString(t *testing.T) {
	result := Illegal("Not enough coins", "have", "2", "cost", "3")
	assert.Equal(t, "Not enough coins (cost=3, have=2)", result.String())
	assert.Equal(t, "All legality checks passed", Legal().String())
}
