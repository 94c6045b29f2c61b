package board

import (
	"strings"
)

// ThumbnailURL строит ссылку миниатюры для вложений, живущих на
// Google Drive. Ссылки других хранилищ возвращаются как есть.
func ThumbnailURL(attachmentURL string) string {
	if !strings.Contains(attachmentURL, "drive.google.com") {
		return attachmentURL
	}

	id := ""
	switch {
	case strings.Contains(attachmentURL, "/d/"):
		rest := attachmentURL[strings.Index(attachmentURL, "/d/")+3:]
		id = cutAt(rest, '/')
	case strings.Contains(attachmentURL, "id="):
		rest := attachmentURL[strings.Index(attachmentURL, "id=")+3:]
		id = cutAt(rest, '&')
	}
	if id == "" {
		return attachmentURL
	}
	return "https://drive.google.com/thumbnail?id=" + id + "&sz=w800"
}

func cutAt(s string, sep byte) string {
	if i := strings.IndexByte(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}
