package domain

import (
	"strings"
	"time"
)

// MaxWordLength is the longest text accepted into the wordbook, in runes.
const MaxWordLength = 60

// TagSeparator joins a word's tags into their persisted form.
const TagSeparator = ","

// Lang identifies a language by its short code (e.g. "en", "zh").
// The set of valid codes is owned by the translation layer, not by this core.
type Lang string

// WordEntry is one row of the wordbook.
type WordEntry struct {
	// ID is assigned by the store on insert; zero means not yet persisted.
	ID          int64
	Word        string
	SourceLang  Lang
	TargetLang  Lang
	Phonetic    string
	Explanation string
	Tags        []string

	// CreatedAt is fixed at first insertion and never updated.
	CreatedAt time.Time
}

// Persisted reports whether the entry has been assigned a storage identity.
func (w *WordEntry) Persisted() bool {
	return w.ID > 0
}

// JoinedTags returns the persisted form of the tag set: the tags joined
// with TagSeparator, or the empty string for an empty set.
func (w *WordEntry) JoinedTags() string {
	return strings.Join(w.Tags, TagSeparator)
}

// SplitTags parses the persisted tag form back into a tag set.
// Blank segments are dropped.
func SplitTags(joined string) []string {
	if joined == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(joined, TagSeparator) {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// CanAddToWordbook reports whether text is a candidate wordbook entry:
// non-blank, at most MaxWordLength runes after trimming, and containing no
// newline anywhere. UI collaborators call this before attempting an insert.
func CanAddToWordbook(text string) bool {
	if strings.Contains(text, "\n") {
		return false
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return len([]rune(trimmed)) <= MaxWordLength
}
