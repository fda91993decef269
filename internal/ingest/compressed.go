package ingest

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"io"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const maxInflatedBytes = 32 << 20

// inflateDiagram decodes the compressed <diagram> payload draw.io writes by
// default: base64 of raw deflate of URL-encoded XML.
func inflateDiagram(payload string) (*element, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(payload), ""))
	if err != nil {
		return nil, &ParseError{Err: errors.Wrap(err, "compressed diagram: base64")}
	}
	fr := flate.NewReader(bytes.NewReader(raw))
	defer fr.Close()

	inflated, err := io.ReadAll(io.LimitReader(fr, maxInflatedBytes+1))
	if err != nil {
		return nil, &ParseError{Err: errors.Wrap(err, "compressed diagram: inflate")}
	}
	if len(inflated) > maxInflatedBytes {
		return nil, &ParseError{Err: errors.Errorf("compressed diagram: inflated size exceeds %d bytes", maxInflatedBytes)}
	}
	text, err := url.PathUnescape(string(inflated))
	if err != nil {
		return nil, &ParseError{Err: errors.Wrap(err, "compressed diagram: url decode")}
	}
	root, err := readTree(strings.NewReader(text))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Err = errors.Wrap(pe.Err, "compressed diagram")
		}
		return nil, err
	}
	return root, nil
}
