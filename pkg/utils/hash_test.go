package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashEmail(t *testing.T) {
	// sha256("a@b.com")
	assert.Equal(t, "fb98d44ad7501a959f3f4f4a3f004fe2d9e581ea6207e218c4b02c08a4d75adf", HashEmail("a@b.com"))
	assert.Equal(t, HashEmail("a@b.com"), HashEmail(" A@B.com "))
	assert.NotEqual(t, HashEmail("a@b.com"), HashEmail("c@b.com"))
}
