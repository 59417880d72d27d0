package rand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID16(t *testing.T) {
	id := ID16()
	assert.Len(t, id, 16)
	assert.Regexp(t, "^[0-9a-f]{16}$", id)
	assert.NotEqual(t, id, ID16())
}
