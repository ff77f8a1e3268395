// Package ioutils provides file system, text and image helpers.
//
// # Tag Sanitization
//
// SanitizeTag prepares a resolved value for writing:
//
//	ioutils.SanitizeTag(model.String("  Café ")) // Returns "Caf"
//
// # Files
//
//	files, err := ioutils.ListFiles("/music", ".mp3") // sorted, non-recursive
//	path, cleanup, err := ioutils.TempPath("mp3norm-cover-", ".jpg")
//	defer cleanup()
//
// # Image Processing
//
// The ImageService handles cover art normalization:
//
//	svc := ioutils.NewImageService()
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
//	resized, _ := svc.ResizeImage(ctx, jpeg, 600, 600)
package ioutils
