// Package jw resolves publication manifests from the jw.org pub-media API.
//
// The catalog endpoint GETPUBMEDIALINKS returns, for one publication and
// language, the list of available media files. Resolver requests the MP3
// listing and converts it into a model.Publication.
//
// # Basic Usage
//
//	resolver := jw.NewResolver(http.NewClient())
//
//	pub, err := resolver.Resolve(ctx, "E", jw.Selector{Pub: "osg"}, false)
//	if err != nil {
//	    return err
//	}
//	for _, item := range pub.Items {
//	    fmt.Printf("%03d %s\n", item.Track, item.Title)
//	}
//
// # Selectors
//
// Publications are selected with the same syntax as the command line:
//
//	selectors := jw.ParseSelectors("sjjm,w:202505;202506")
//	// [{sjjm } {w 202505} {w 202506}]
//
// Magazines ("w", "g") need an issue; Selector.RequiresIssue reports that.
package jw
