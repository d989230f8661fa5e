// Package ioutils provides file system and image helpers shared by the
// downloader.
//
// # File Operations
//
//	// Ensure a media directory exists
//	err := ioutils.EnsureDir("/music/en/Original Songs")
//
//	// Best-effort removal of a partial download
//	err := ioutils.RemoveIfExists("/music/en/Original Songs/001 - Title.mp3")
//
// # Filename Sanitization
//
// SanitizeFileName drops characters that are invalid in file or directory
// names and normalizes the result to NFC:
//
//	safe := ioutils.SanitizeFileName(`"Sing Out Joyfully" to Jehovah`) // Sing Out Joyfully to Jehovah
//
// # Cover Art
//
// The ImageService prepares publication artwork for the media directory and
// for embedding into ID3 tags:
//
//	svc := ioutils.NewImageService()
//	jpeg, err := svc.PrepareCover(ctx, imageData, 1000)
package ioutils
