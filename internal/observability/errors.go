package observability

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/baxromumarov/fundedlist/internal/httpx"
)

const (
	ErrorNetwork   = "network"
	ErrorParsing   = "parsing"
	ErrorAI        = "ai"
	ErrorRateLimit = "rate_limit"
	ErrorRobots    = "robots"
	ErrorStore     = "store"
	ErrorUnknown   = "unknown"
)

// Components group error and failure counts by the part of the pipeline
// they came from.
const (
	ComponentCurated = "curated"
	ComponentYC      = "yc"
	ComponentFeed    = "feed"
	ComponentGallery = "gallery"
	ComponentBoard   = "board"
	ComponentCareers = "careers"
	ComponentPublish = "publish"
)

// SourceComponent maps a company source name to its component. Feed
// sources are named by their URL.
func SourceComponent(source string) string {
	switch source {
	case "curated":
		return ComponentCurated
	case "ycombinator":
		return ComponentYC
	case "startups.gallery":
		return ComponentGallery
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return ComponentFeed
	}
	return orUnknown(source)
}

// ClassifyFetchError buckets transport failures. Anything that is not a
// recognised HTTP or robots error is unknown.
func ClassifyFetchError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	if errors.Is(err, httpx.ErrRobotsDisallowed) {
		return ErrorRobots
	}
	var fe *httpx.FetchError
	if errors.As(err, &fe) {
		if fe.Status == http.StatusTooManyRequests {
			return ErrorRateLimit
		}
		return ErrorNetwork
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return ErrorNetwork
	}
	return ErrorUnknown
}

// ClassifyScrapeError adds decode failures from the YC JSON, the curated
// YAML and the news feeds on top of ClassifyFetchError. Unrecognised
// errors count as network failures.
func ClassifyScrapeError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	if kind := ClassifyFetchError(err); kind != ErrorUnknown {
		return kind
	}
	if isDecodeError(err) {
		return ErrorParsing
	}
	return ErrorNetwork
}

func isDecodeError(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		xmlErr    *xml.SyntaxError
		yamlErr   *yaml.TypeError
	)
	switch {
	case errors.Is(err, httpx.ErrMalformed):
		return true
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.As(err, &xmlErr), errors.As(err, &yamlErr):
		return true
	case errors.Is(err, gofeed.ErrFeedTypeNotDetected):
		return true
	}
	return false
}
