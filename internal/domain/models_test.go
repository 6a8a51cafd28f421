package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostType(t *testing.T) {
	cases := []struct {
		in   string
		want PostType
	}{
		{"GENERAL", PostTypeGeneral},
		{"question", PostTypeQuestion},
		{"Experience", PostTypeExperience},
		{" quesTion ", PostTypeQuestion},
		{"", PostTypeGeneral},
		{"SOMETHING_ELSE", PostTypeGeneral},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParsePostType(c.in), "input %q", c.in)
	}
}

func TestLookupPostType_Strict(t *testing.T) {
	got, ok := LookupPostType("experience")
	require.True(t, ok)
	assert.Equal(t, PostTypeExperience, got)

	_, ok = LookupPostType("hot-take")
	assert.False(t, ok)

	_, ok = LookupPostType("")
	assert.False(t, ok)
}

func TestTagList_Serialized(t *testing.T) {
	tags := TagList{"孕早期", "求助", "求助"} // duplicates and order preserved
	s := tags.Serialized()
	assert.Equal(t, `["孕早期","求助","求助"]`, s)

	// Tag filtering is substring containment against this form.
	assert.True(t, strings.Contains(s, "求助"))

	var empty TagList
	assert.Equal(t, "[]", empty.Serialized())
}

func TestTagList_ScanRoundTrip(t *testing.T) {
	tags := TagList{"nutrition", "第 12 周"}
	v, err := tags.Value()
	require.NoError(t, err)

	var got TagList
	require.NoError(t, got.Scan(v))
	assert.Equal(t, tags, got)

	var fromNil TagList
	require.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)
}
