package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAddToWordbook(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"simple word", "hello", true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"surrounding whitespace", "  hello  ", true},
		{"max length", strings.Repeat("a", 60), true},
		{"over max length", strings.Repeat("a", 61), false},
		{"embedded newline", "hello\nworld", false},
		{"trailing newline", "hello\n", false},
		{"leading newline", "\nhello", false},
		{"newline only", "\n", false},
		{"multibyte runes counted as one", strings.Repeat("好", 60), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAddToWordbook(tt.text))
		})
	}
}

func TestWordEntry_JoinedTags(t *testing.T) {
	entry := WordEntry{Tags: []string{"noun", "common"}}
	assert.Equal(t, "noun,common", entry.JoinedTags())

	empty := WordEntry{}
	assert.Equal(t, "", empty.JoinedTags())
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"noun", "common"}, SplitTags("noun,common"))
	assert.Equal(t, []string{"noun"}, SplitTags(" noun , "))
	assert.Nil(t, SplitTags(""))
}

func TestWordEntry_Persisted(t *testing.T) {
	assert.False(t, (&WordEntry{}).Persisted())
	assert.True(t, (&WordEntry{ID: 7}).Persisted())
}
