// Package model defines the data structures shared by the resolver, the
// download orchestrator and the post-processing steps.
//
// # Media Items
//
// MediaItem is one audio file listed in a publication manifest:
//
//	item := model.MediaItem{Title: "Jehovah's Love", URL: mp3URL, Track: 12}
//
// # Naming Policy
//
// NamingPolicy turns an item into a file name:
//
//	policy := model.NamingPolicy{Structure: model.StructureFlat, LocaleTag: "X"}
//	policy.FileName(item) // "012 - X - Jehovah's Love.mp3"
//
// Target bundles an item with the destination path computed once from the
// policy and the media directory:
//
//	target := model.NewTarget(item, mediaDir, policy)
//
// # Media Directories
//
// MediaDir computes where a publication's files are stored for the flat and
// nested layouts.
package model
