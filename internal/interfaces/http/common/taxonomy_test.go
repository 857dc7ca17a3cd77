package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalIndustryCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"manufacturing", "製造"},
		{"Factory", "製造"},
		{"it", "IT・通信"},
		{"IT_TELECOM", "IT・通信"},
		{"caregiving", "介護・福祉"},
		{"logistics", "物流・運輸"},
		{"農業", "農業"},
		{" retail ", "小売"},
		{"", ""},
		{"aerospace", "aerospace"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalIndustryCode(tt.in), "input=%q", tt.in)
	}
}

func TestParsePositiveInt(t *testing.T) {
	v, ok := ParsePositiveInt("15", 1)
	assert.True(t, ok)
	assert.Equal(t, 15, v)

	v, ok = ParsePositiveInt("", 7)
	assert.False(t, ok)
	assert.Equal(t, 7, v)

	v, ok = ParsePositiveInt("0", 7)
	assert.False(t, ok)
	assert.Equal(t, 7, v)

	v, ok = ParsePositiveInt("junk", 7)
	assert.False(t, ok)
	assert.Equal(t, 7, v)
}

func TestIntPtrValue(t *testing.T) {
	assert.Equal(t, 3, IntPtrValue(IntPtr(3)))
	assert.Zero(t, IntPtrValue(nil))
}
