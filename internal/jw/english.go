package jw

import (
	"context"
	"fmt"
)

// EnglishInfo holds the English names of one publication, used for naming
// directories and files when English names are requested.
type EnglishInfo struct {
	PubName string
	Titles  map[int]string
}

// EnglishInfoMap is keyed by selector.
type EnglishInfoMap map[Selector]EnglishInfo

// FetchEnglishInfo resolves the English manifest of every selector.
//
// Audio descriptions are always included so that the title map is complete.
// A selector that cannot be resolved is reported through onError and left
// out of the map; the caller then falls back to the localized names.
func FetchEnglishInfo(ctx context.Context, r *Resolver, selectors []Selector, onError func(Selector, error)) EnglishInfoMap {
	info := make(EnglishInfoMap, len(selectors))
	for _, sel := range selectors {
		if err := ctx.Err(); err != nil {
			return info
		}

		pub, err := r.Resolve(ctx, EnglishLocaleKey, sel, true)
		if err != nil {
			if onError != nil {
				onError(sel, fmt.Errorf("english info: %w", err))
			}
			continue
		}

		info[sel] = EnglishInfo{
			PubName: DisplayName(sel.Pub, pub.Name),
			Titles:  pub.Titles(),
		}
	}
	return info
}
