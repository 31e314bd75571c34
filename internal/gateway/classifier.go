package gateway

import (
	"path"
	"strings"
)

// Classification is the category of a request path
type Classification int

const (
	ProtectedPath Classification = iota
	Asset
	ApiRoute
	PublicPath
)

func (c Classification) String() string {
	switch c {
	case Asset:
		return "Asset"
	case ApiRoute:
		return "ApiRoute"
	case PublicPath:
		return "PublicPath"
	default:
		return "ProtectedPath"
	}
}

// Bypassed reports whether the gateway skips session resolution for c
func (c Classification) Bypassed() bool {
	return c == Asset || c == ApiRoute
}

// Rules is the static table the classifier evaluates
type Rules struct {
	// AssetPrefixes match static files and framework internals
	AssetPrefixes []string
	// APIPrefix is the API namespace. Handlers under it authorize themselves.
	APIPrefix string
	// PublicPages are matched exactly
	PublicPages []string
}

// DefaultRules is the route table of the application
var DefaultRules = Rules{
	AssetPrefixes: []string{"/_next/", "/static/", "/assets/", "/favicon.ico"},
	APIPrefix:     "/api",
	PublicPages: []string{
		"/",
		"/login",
		"/register",
		"/forgot-password",
		"/reset-password",
		"/auth-debug",
		"/session-debug",
	},
}

// Classifier maps paths to classifications
type Classifier struct {
	rules  Rules
	public map[string]struct{}
}

// NewClassifier creates a classifier over rules
func NewClassifier(rules Rules) *Classifier {
	public := make(map[string]struct{}, len(rules.PublicPages))
	for _, p := range rules.PublicPages {
		public[p] = struct{}{}
	}
	return &Classifier{rules: rules, public: public}
}

// Classify returns the classification of p. Rules are tried in order: asset,
// API, public page, and everything else is protected.
func (c *Classifier) Classify(p string) Classification {
	if p == "" {
		p = "/"
	}

	if c.isAsset(p) {
		return Asset
	}
	if c.isAPI(p) {
		return ApiRoute
	}
	if _, ok := c.public[trimTrailingSlash(p)]; ok {
		return PublicPath
	}
	return ProtectedPath
}

func (c *Classifier) isAsset(p string) bool {
	for _, prefix := range c.rules.AssetPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	// Any last segment with an extension, e.g. /robots.txt or /img/logo.svg
	last := p[strings.LastIndexByte(p, '/')+1:]
	return path.Ext(last) != "" && path.Ext(last) != "."
}

func (c *Classifier) isAPI(p string) bool {
	api := c.rules.APIPrefix
	return api != "" && (p == api || strings.HasPrefix(p, api+"/"))
}

func trimTrailingSlash(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return p[:len(p)-1]
	}
	return p
}

var defaultClassifier = NewClassifier(DefaultRules)

// Classify classifies p with DefaultRules
func Classify(p string) Classification {
	return defaultClassifier.Classify(p)
}
