package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamingPolicy_FileName(t *testing.T) {
	item := MediaItem{Title: "Jehovah's Love", URL: "https://example.com/a.mp3", Track: 7}

	tests := []struct {
		name   string
		policy NamingPolicy
		item   MediaItem
		want   string
	}{
		{
			name:   "nested ignores locale tag",
			policy: NamingPolicy{Structure: StructureNested, LocaleTag: "X"},
			item:   item,
			want:   "007 - Jehovah's Love.mp3",
		},
		{
			name:   "flat with locale tag",
			policy: NamingPolicy{Structure: StructureFlat, LocaleTag: "X"},
			item:   item,
			want:   "007 - X - Jehovah's Love.mp3",
		},
		{
			name:   "flat without locale tag",
			policy: NamingPolicy{Structure: StructureFlat},
			item:   item,
			want:   "007 - Jehovah's Love.mp3",
		},
		{
			name:   "title override",
			policy: NamingPolicy{Structure: StructureNested, TitleOverrides: map[int]string{7: "English Title"}},
			item:   item,
			want:   "007 - English Title.mp3",
		},
		{
			name:   "missing override falls back",
			policy: NamingPolicy{Structure: StructureNested, TitleOverrides: map[int]string{8: "Other"}},
			item:   item,
			want:   "007 - Jehovah's Love.mp3",
		},
		{
			name:   "three digit track",
			policy: NamingPolicy{Structure: StructureNested},
			item:   MediaItem{Title: "Description", Track: 512},
			want:   "512 - Description.mp3",
		},
		{
			name:   "title is sanitized",
			policy: NamingPolicy{Structure: StructureNested},
			item:   MediaItem{Title: "Part 1/2: Intro?", Track: 1},
			want:   "001 - Part 12 Intro.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.FileName(tt.item))
		})
	}
}

func TestNewTarget(t *testing.T) {
	item := MediaItem{Title: "Song", Track: 3}
	target := NewTarget(item, "/music/en/Original Songs", NamingPolicy{Structure: StructureNested})

	assert.Equal(t, item, target.Item)
	assert.Equal(t, "003 - Song.mp3", target.DisplayName)
	assert.Equal(t, filepath.Join("/music/en/Original Songs", "003 - Song.mp3"), target.Path)
}

func TestMediaDir(t *testing.T) {
	pub := &Publication{Code: "w", Issue: "202505", Locale: "en"}

	assert.Equal(t,
		filepath.Join("/root", "en Watchtower - 202505"),
		MediaDir("/root", pub, "Watchtower", StructureFlat))
	assert.Equal(t,
		filepath.Join("/root", "en", "Watchtower", "202505"),
		MediaDir("/root", pub, "Watchtower", StructureNested))

	noIssue := &Publication{Code: "osg", Locale: "de"}
	assert.Equal(t,
		filepath.Join("/root", "de Original Songs"),
		MediaDir("/root", noIssue, `Original: Songs`, StructureFlat))
	assert.Equal(t,
		filepath.Join("/root", "de", "Original Songs"),
		MediaDir("/root", noIssue, "Original Songs", StructureNested))
}

func TestParseStructure(t *testing.T) {
	s, err := ParseStructure("flat")
	require.NoError(t, err)
	assert.Equal(t, StructureFlat, s)

	s, err = ParseStructure("nested")
	require.NoError(t, err)
	assert.Equal(t, StructureNested, s)

	_, err = ParseStructure("tree")
	assert.Error(t, err)
}

func TestPublication_Titles(t *testing.T) {
	pub := &Publication{Items: []MediaItem{{Title: "One", Track: 1}, {Title: "Two", Track: 2}}}
	assert.Equal(t, map[int]string{1: "One", 2: "Two"}, pub.Titles())
	assert.False(t, pub.HasImage())
	assert.True(t, MediaItem{Track: 501}.IsAudioDescription())
	assert.False(t, MediaItem{Track: 500}.IsAudioDescription())
}
