package model

import (
	"fmt"
	"path/filepath"

	ioutils "github.com/handiism/jw-media-downloader/internal/io"
)

// Structure selects how publication directories and file names are laid out.
type Structure string

const (
	// StructureNested stores files under {locale}/{publication}[/{issue}].
	StructureNested Structure = "nested"

	// StructureFlat stores files under "{locale} {publication}[ - {issue}]"
	// and tags file names with the locale key.
	StructureFlat Structure = "flat"
)

// ParseStructure converts a configuration string into a Structure.
func ParseStructure(s string) (Structure, error) {
	switch Structure(s) {
	case StructureNested, StructureFlat:
		return Structure(s), nil
	}
	return "", fmt.Errorf("unknown structure %q (want %q or %q)", s, StructureNested, StructureFlat)
}

// NamingPolicy decides the file name of a media item.
type NamingPolicy struct {
	Structure Structure

	// LocaleTag is inserted into flat file names when set.
	LocaleTag string

	// TitleOverrides replaces item titles by track number, typically with
	// the English titles. Missing entries fall back to the item title.
	TitleOverrides map[int]string
}

// Title returns the title used for item's file name.
func (p NamingPolicy) Title(item MediaItem) string {
	if title, ok := p.TitleOverrides[item.Track]; ok {
		return title
	}
	return item.Title
}

// FileName returns the item's file name:
//
//	"{track:03d} - {title}.mp3"
//	"{track:03d} - {localeTag} - {title}.mp3"   (flat structure with a locale tag)
func (p NamingPolicy) FileName(item MediaItem) string {
	title := ioutils.SanitizeFileName(p.Title(item))
	if p.Structure == StructureFlat && p.LocaleTag != "" {
		return fmt.Sprintf("%03d - %s - %s.mp3", item.Track, p.LocaleTag, title)
	}
	return fmt.Sprintf("%03d - %s.mp3", item.Track, title)
}

// Target is a media item bound to its local destination.
type Target struct {
	Item MediaItem

	// Path is the full destination path.
	Path string

	// DisplayName is the file name used in log messages.
	DisplayName string
}

// NewTarget computes the destination of item inside dir.
func NewTarget(item MediaItem, dir string, policy NamingPolicy) Target {
	name := policy.FileName(item)
	return Target{
		Item:        item,
		Path:        filepath.Join(dir, name),
		DisplayName: name,
	}
}

// MediaDir returns the directory for a publication below root.
//
// pubDirName is the publication name chosen by the caller (catalog name,
// English name or code). Every path segment is sanitized.
//
//	flat:   root/"{locale} {pubDirName}[ - {issue}]"
//	nested: root/{locale}/{pubDirName}[/{issue}]
func MediaDir(root string, pub *Publication, pubDirName string, structure Structure) string {
	if structure == StructureFlat {
		name := fmt.Sprintf("%s %s", pub.Locale, pubDirName)
		if pub.Issue != "" {
			name += " - " + pub.Issue
		}
		return filepath.Join(root, ioutils.SanitizeFileName(name))
	}

	dir := filepath.Join(root, ioutils.SanitizeFileName(pub.Locale), ioutils.SanitizeFileName(pubDirName))
	if pub.Issue != "" {
		dir = filepath.Join(dir, ioutils.SanitizeFileName(pub.Issue))
	}
	return dir
}
