package jw

import "strings"

// PublicationNames holds display names for publications whose manifest may
// not carry a name.
var PublicationNames = map[string]string{
	"sjjm":   `"Sing Out Joyfully" to Jehovah—Meetings`,
	"sjjc":   `“Sing Out Joyfully” to Jehovah—Vocals`,
	"sjji":   `"Sing Out Joyfully" to Jehovah—Instrumental`,
	"pksjj":  `Become Jehovah’s Friend—Sing With Us`,
	"osg":    `Original Songs`,
	"pkon":   `Become Jehovah’s Friend—Original Songs`,
	"gnjst1": `The Good News According to Jesus—Soundtrack 1`,
	"cywst":  `“Commit Your Way to Jehovah”—Soundtrack`,
	"snv":    `Sing to Jehovah—Chorus`,
}

// issueRequired lists the periodicals that can only be resolved per issue.
var issueRequired = map[string]bool{
	"w": true,
	"g": true,
}

// Selector identifies a publication and optionally one of its issues.
type Selector struct {
	Pub   string
	Issue string
}

// String returns "pub" or "pub:issue".
func (s Selector) String() string {
	if s.Issue == "" {
		return s.Pub
	}
	return s.Pub + ":" + s.Issue
}

// RequiresIssue reports whether the publication is a periodical that needs
// an issue but none was given.
func (s Selector) RequiresIssue() bool {
	return issueRequired[s.Pub] && s.Issue == ""
}

// ParseSelectors parses a comma-separated publication list.
//
//	"osg"                    -> [{osg }]
//	"w:202505"               -> [{w 202505}]
//	"g:202505;202506, sjjm"  -> [{g 202505} {g 202506} {sjjm }]
//
// Empty entries are ignored.
func ParseSelectors(s string) []Selector {
	var selectors []Selector
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		pub, issues, found := strings.Cut(entry, ":")
		pub = strings.TrimSpace(pub)
		if !found {
			selectors = append(selectors, Selector{Pub: pub})
			continue
		}

		for _, issue := range strings.Split(issues, ";") {
			if issue = strings.TrimSpace(issue); issue != "" {
				selectors = append(selectors, Selector{Pub: pub, Issue: issue})
			}
		}
	}
	return selectors
}

// DisplayName picks the directory name of a publication: the catalog name
// when present, then the built-in name, then the code itself.
func DisplayName(code, catalogName string) string {
	if catalogName != "" {
		return catalogName
	}
	if name, ok := PublicationNames[code]; ok {
		return name
	}
	return code
}
