package versioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionHeader_ShouldReplace(t *testing.T) {
	base := VersionHeader{CreatedAt: 100, Version: 1}

	testCases := []struct {
		name    string
		other   VersionHeader
		replace bool
	}{
		{"older creation time never replaces", VersionHeader{CreatedAt: 50, Version: 99}, false},
		{"newer creation time always replaces", VersionHeader{CreatedAt: 200, Version: 0}, true},
		{"same creation time, higher version replaces", VersionHeader{CreatedAt: 100, Version: 2}, true},
		{"same creation time, same version does not replace", VersionHeader{CreatedAt: 100, Version: 1}, false},
		{"same creation time, lower version does not replace", VersionHeader{CreatedAt: 100, Version: 0}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.replace, base.ShouldReplace(tc.other))
		})
	}
}

func TestVersionHeader_IsCurrent(t *testing.T) {
	h := VersionHeader{CreatedAt: 100, Version: 1}

	assert.True(t, h.IsCurrent(VersionHeader{CreatedAt: 100, Version: 1}))
	assert.False(t, h.IsCurrent(VersionHeader{CreatedAt: 100, Version: 2}))
}

func TestVersioned_NextVersion_IncrementsMonotonically(t *testing.T) {
	v := NewVersioned("initial")

	v = v.NextVersion("first-update")
	assert.Equal(t, uint32(1), v.Header.Version)
	assert.Equal(t, "first-update", v.Value)

	v = v.NextVersion("second-update")
	assert.Equal(t, uint32(2), v.Header.Version)
	assert.Equal(t, "second-update", v.Value)
}

func TestVersioned_ShouldReplace(t *testing.T) {
	v := NewVersioned("a")
	next := v.NextVersion("b")

	assert.True(t, v.ShouldReplace(next))
	assert.False(t, next.ShouldReplace(v))
}
