package download

import (
	"bytes"

	"github.com/cloudflare/ahocorasick"
)

// sniffLen is how many leading payload bytes are inspected
const sniffLen = 16

type signature struct {
	format string
	offset int
	magic  []byte
	riff   bool // container must also start with "RIFF"
}

var imageSignatures = []signature{
	{format: "jpeg", magic: []byte{0xFF, 0xD8, 0xFF}},
	{format: "png", magic: []byte("\x89PNG\r\n\x1a\n")},
	{format: "gif", magic: []byte("GIF87a")},
	{format: "gif", magic: []byte("GIF89a")},
	{format: "webp", offset: 8, magic: []byte("WEBP"), riff: true},
	{format: "bmp", magic: []byte("BM")},
}

var signatureMatcher = newSignatureMatcher(imageSignatures)

func newSignatureMatcher(sigs []signature) *ahocorasick.Matcher {
	dict := make([][]byte, 0, len(sigs))
	for _, s := range sigs {
		dict = append(dict, s.magic)
	}
	return ahocorasick.NewMatcher(dict)
}

// DetectImage reports the image format whose signature the header starts with.
func DetectImage(header []byte) (string, bool) {
	if len(header) > sniffLen {
		header = header[:sniffLen]
	}
	for _, idx := range signatureMatcher.MatchThreadSafe(header) {
		if idx < 0 || idx >= len(imageSignatures) {
			continue
		}
		sig := imageSignatures[idx]
		end := sig.offset + len(sig.magic)
		if end > len(header) || !bytes.Equal(header[sig.offset:end], sig.magic) {
			continue
		}
		if sig.riff && !bytes.HasPrefix(header, []byte("RIFF")) {
			continue
		}
		return sig.format, true
	}
	return "", false
}
