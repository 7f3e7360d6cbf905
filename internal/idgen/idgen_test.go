package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	first := New()
	second := New()
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestShort(t *testing.T) {
	testCases := []struct {
		name   string
		id     string
		expect string
	}{
		{name: "uuid", id: "3f2b1c4d-1111-2222-3333-444455556666", expect: "3f2b1c4d"},
		{name: "no separator", id: "worker", expect: "worker"},
		{name: "empty", id: "", expect: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, Short(tc.id))
		})
	}
}
