package ingest

import (
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	attrResponseTime  = "responseTime"
	attrRenderingTime = "RenderingTime"
	attrFlow          = "flow"
	attrStep          = "step"
	styleCategoryKey  = "appType"
)

var (
	errNegative  = errors.New("negative value")
	errNotFinite = errors.New("value is not finite")

	reTag = regexp.MustCompile(`<[^>]*>`)
)

// optional is an attribute value together with whether it was present.
type optional struct {
	Value string
	Set   bool
}

func (o optional) present() bool { return o.Set && strings.TrimSpace(o.Value) != "" }

// parseFloatOrDefault is the single coercion point for response times.
// Missing text yields 0 with no error. Malformed, negative and non-finite
// text yields 0 together with the reason, which callers drop unless they
// run strict.
func parseFloatOrDefault(o optional) (float64, error) {
	if !o.present() {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(o.Value), 64)
	switch {
	case err != nil:
		return 0, err
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0, errNotFinite
	case v < 0:
		return 0, errNegative
	}
	return v, nil
}

// parseIntOrDefault is parseFloatOrDefault for step indices. Negative
// indices are accepted since they only order steps.
func parseIntOrDefault(o optional) (int, error) {
	if !o.present() {
		return 0, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(o.Value))
	if err != nil {
		return 0, err
	}
	return v, nil
}

// styleValue returns the value of key in a draw.io style string such as
// "rounded=1;appType=db;html=1;".
func styleValue(style, key string) string {
	for _, tok := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(k) == key {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// cleanLabel turns draw.io's HTML labels (<div>Service</div>, <br>) into
// plain text.
func cleanLabel(s string) string {
	s = reTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
