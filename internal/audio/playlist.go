package audio

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/jw-media-downloader/internal/model"
)

// PlaylistFormat represents a playlist file format.
type PlaylistFormat int

const (
	// FormatM3U is the M3U format, optionally extended with #EXTINF lines.
	FormatM3U PlaylistFormat = iota

	// FormatPLS is the PLS (Winamp) format.
	FormatPLS

	// FormatWPL is the Windows Media Player format.
	FormatWPL

	// FormatZPL is the Zune Media Player format.
	FormatZPL
)

// ParsePlaylistFormat converts "m3u", "pls", "wpl" or "zpl" to a PlaylistFormat.
func ParsePlaylistFormat(s string) (PlaylistFormat, error) {
	switch strings.ToLower(s) {
	case "m3u":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	case "wpl":
		return FormatWPL, nil
	case "zpl":
		return FormatZPL, nil
	}
	return 0, fmt.Errorf("unknown playlist format %q", s)
}

// Extension returns the file extension including the dot.
func (f PlaylistFormat) Extension() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// PlaylistCreator renders playlists of a publication's files. Entries are
// file names relative to the playlist, which lives in the media directory.
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the configured format.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist renders targets, in the given order, as a playlist.
func (p *PlaylistCreator) CreatePlaylist(pub *model.Publication, targets []model.Target) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(targets)
	case FormatWPL:
		return p.createWPL(pub, targets)
	case FormatZPL:
		return p.createZPL(pub, targets)
	default:
		return p.createM3U(targets)
	}
}

func (p *PlaylistCreator) createM3U(targets []model.Target) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, target := range targets {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:%d,%s\n", int(target.Item.Duration), target.Item.Title)
		}
		sb.WriteString(filepath.Base(target.Path) + "\n")
	}

	return sb.String()
}

func (p *PlaylistCreator) createPLS(targets []model.Target) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, target := range targets {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, filepath.Base(target.Path))
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, target.Item.Title)
		fmt.Fprintf(&sb, "Length%d=%d\n", idx, int(target.Item.Duration))
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(targets))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func (p *PlaylistCreator) createWPL(pub *model.Publication, targets []model.Target) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(albumName(pub)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, target := range targets {
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escapeXML(filepath.Base(target.Path)))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

func (p *PlaylistCreator) createZPL(pub *model.Publication, targets []model.Target) string {
	var sb strings.Builder
	album := escapeXML(albumName(pub))

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", album)
	sb.WriteString("    <meta name=\"Generator\" content=\"jw-media-downloader\"/>\n")
	fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(targets))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, target := range targets {
		duration := time.Duration(target.Item.Duration * float64(time.Second))
		fmt.Fprintf(&sb, "      <media src=\"%s\" albumTitle=\"%s\" trackTitle=\"%s\" duration=\"%d\"/>\n",
			escapeXML(filepath.Base(target.Path)),
			album,
			escapeXML(target.Item.Title),
			duration.Milliseconds())
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
