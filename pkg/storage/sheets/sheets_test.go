package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnLetter(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{51, "AY"},
		{52, "AZ"},
		{702, "ZZ"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, columnLetter(c.n), "columnLetter(%d)", c.n)
	}
}

func TestRowFromRange(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"Daily!A42:AY42", 42},
		{"'Garmin Daily'!A2:AY2", 2},
		{"Daily!A7", 7},
		{"", 0},
		{"no-bang-here", 0},
		{"Daily!AY", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, rowFromRange(c.in), "rowFromRange(%q)", c.in)
	}
}

func TestEqualHeader(t *testing.T) {
	assert.True(t, equalHeader([]string{"Date", "Steps"}, []string{"Date", "Steps"}))
	assert.False(t, equalHeader([]string{"Date"}, []string{"Date", "Steps"}))
	assert.False(t, equalHeader([]string{"Date", "steps"}, []string{"Date", "Steps"}), "comparison is case sensitive")
	assert.True(t, equalHeader(nil, nil))
}

func TestRowRange(t *testing.T) {
	s := &Store{worksheet: "Garmin Daily", fieldCount: 51}
	assert.Equal(t, "'Garmin Daily'!A3:AY3", s.rowRange(3))
}
