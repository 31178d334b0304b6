package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Of(nil))
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", Of([]byte("hello")))
}

func TestOf_DetectsChange(t *testing.T) {
	a := Of([]byte("<record><title>one</title></record>"))
	b := Of([]byte("<record><title>one </title></record>"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Of([]byte("<record><title>one</title></record>")))
	assert.Len(t, a, 32)
}
