package domain

import "strings"

// DefaultImageMIMEType は生成画像を包む data URI の MIME タイプです。
const DefaultImageMIMEType = "image/jpeg"

const dataURIPrefix = "data:"
const base64Marker = ";base64,"

// NewImageDataURI は base64 済みのペイロードを data URI に包みます。
func NewImageDataURI(encoded string) string {
	return dataURIPrefix + DefaultImageMIMEType + base64Marker + encoded
}

// ParseImageDataURI は data URI を MIME タイプとペイロードに分解します。
// data URI でない値は MIME 不明のペイロードとしてそのまま返します。
func ParseImageDataURI(uri string) (mimeType, payload string) {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return "", uri
	}
	rest := strings.TrimPrefix(uri, dataURIPrefix)
	idx := strings.Index(rest, base64Marker)
	if idx < 0 {
		return "", uri
	}
	return rest[:idx], rest[idx+len(base64Marker):]
}

// BuildImageDataURI は保存済みの MIME タイプとペイロードから data URI を組み立て直します。
func BuildImageDataURI(mimeType, payload string) string {
	if mimeType == "" {
		mimeType = DefaultImageMIMEType
	}
	return dataURIPrefix + mimeType + base64Marker + payload
}
