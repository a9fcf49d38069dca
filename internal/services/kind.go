package services

import (
	"path/filepath"
	"strings"
)

// Attachment kinds. KindFile is the fallback for anything unrecognized.
const (
	KindDocument = "document"
	KindImage    = "image"
	KindVideo    = "video"
	KindAudio    = "audio"
	KindArchive  = "archive"
	KindCode     = "code"
	KindFile     = "file"
)

// kindCategory maps a kind to the extensions it claims. Categories are
// checked in order and the first match wins, so an extension listed twice
// resolves to the earlier category.
type kindCategory struct {
	kind       string
	extensions []string
}

var kindCategories = []kindCategory{
	{KindDocument, []string{".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".xls", ".xlsx", ".csv", ".ppt", ".pptx"}},
	{KindImage, []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp", ".ico", ".tiff"}},
	{KindVideo, []string{".mp4", ".avi", ".mov", ".wmv", ".flv", ".mkv", ".webm", ".m4v"}},
	{KindAudio, []string{".mp3", ".wav", ".ogg", ".flac", ".aac", ".m4a", ".wma"}},
	{KindArchive, []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}},
	{KindCode, []string{".js", ".ts", ".jsx", ".tsx", ".py", ".java", ".cpp", ".c", ".h", ".css", ".html", ".json", ".xml", ".sql"}},
}

// KindForFilename classifies a filename by its extension
func KindForFilename(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return KindFile
	}
	for _, category := range kindCategories {
		for _, e := range category.extensions {
			if e == ext {
				return category.kind
			}
		}
	}
	return KindFile
}
