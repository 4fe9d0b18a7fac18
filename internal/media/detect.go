package media

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MaxUploadSize = 50 << 20
	sniffLen      = 3072

	CategoryImage = "image"
	CategoryVideo = "video"
)

var ErrUnsupportedType = errors.New("only image and video files are allowed")

var allowedTypes = map[string][]string{
	CategoryImage: {"image/jpeg", "image/png", "image/gif"},
	CategoryVideo: {"video/mp4", "video/quicktime", "video/x-msvideo", "video/x-ms-asf", "video/x-flv", "video/webm"},
}

type Sniffed struct {
	// Reader replays the sniffed header followed by the rest of the input.
	Reader   io.Reader
	MIME     string
	Category string
}

// Detect inspects the first bytes of r and classifies the content as an image or a video.
func Detect(r io.Reader) (*Sniffed, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	header = header[:n]

	mt := mimetype.Detect(header)
	for category, types := range allowedTypes {
		for _, t := range types {
			if mt.Is(t) {
				return &Sniffed{
					Reader:   io.MultiReader(bytes.NewReader(header), r),
					MIME:     strings.SplitN(mt.String(), ";", 2)[0],
					Category: category,
				}, nil
			}
		}
	}

	return nil, ErrUnsupportedType
}
