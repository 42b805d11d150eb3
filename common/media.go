package common

import (
	"fmt"

	"github.com/authcorp/valueobject/schema"
	"github.com/authcorp/valueobject/validation"
	"github.com/authcorp/valueobject/vo"
	"github.com/h2non/filetype"
)

// MaxMediaSize bounds the payload of Media values.
const MaxMediaSize = 10 << 20

// AllowedMediaTypes lists the MIME types accepted by Media, detected from
// the leading magic bytes.
var AllowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// Media holds images and PDF documents of at most MaxMediaSize bytes.
var Media = vo.Must(vo.DefineBytes("Media", validation.Tag[[]byte](
	fmt.Sprintf("required,max=%d", MaxMediaSize),
	validation.With(allowedMedia),
	validation.Describe[[]byte](func(s *schema.Schema) { s.Format = schema.FormatBinary }),
)))

// MediaType returns the MIME type detected from the content of b, or "" when
// it is not recognized.
func MediaType(b vo.Bytes) string {
	return detectMIME(b.Raw())
}

func detectMIME(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}

func allowedMedia(field string, value []byte) error {
	mime := detectMIME(value)
	if mime == "" {
		return &validation.ValidationError{Field: field, Message: "unrecognized content type"}
	}
	if !AllowedMediaTypes[mime] {
		return &validation.ValidationError{Field: field, Message: fmt.Sprintf("content type %s is not allowed", mime)}
	}
	return nil
}
