package gateway

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Classification
	}{
		// assets
		{"/_next/static/chunks/main.js", Asset},
		{"/_next/image", Asset},
		{"/static/logo", Asset},
		{"/assets/app.css", Asset},
		{"/favicon.ico", Asset},
		{"/robots.txt", Asset},
		{"/dashboard/report.pdf", Asset},

		// API namespace, auth endpoints included
		{"/api", ApiRoute},
		{"/api/orders", ApiRoute},
		{"/api/auth/login", ApiRoute},
		{"/api/custom-auth/login", ApiRoute},
		{"/apiary", ProtectedPath},

		// public pages
		{"", PublicPath},
		{"/", PublicPath},
		{"/login", PublicPath},
		{"/login/", PublicPath},
		{"/register", PublicPath},
		{"/forgot-password", PublicPath},
		{"/reset-password", PublicPath},
		{"/auth-debug", PublicPath},
		{"/session-debug", PublicPath},

		// everything else
		{"/dashboard", ProtectedPath},
		{"/dashboard/orders", ProtectedPath},
		{"/production", ProtectedPath},
		{"/login/extra", ProtectedPath},
		{"/LOGIN", ProtectedPath},
		{"/login.", ProtectedPath},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestClassify_Totality(t *testing.T) {
	valid := map[Classification]bool{Asset: true, ApiRoute: true, PublicPath: true, ProtectedPath: true}

	f := func(p string) bool {
		return valid[Classify(p)] && Classify(p) == Classify(p)
	}
	assert.NoError(t, quick.Check(f, &quick.Config{MaxCount: 5000}))

	g := func(suffix string) bool {
		return valid[Classify("/"+suffix)]
	}
	assert.NoError(t, quick.Check(g, &quick.Config{MaxCount: 5000}))
}

func TestClassification_Bypassed(t *testing.T) {
	assert.True(t, Asset.Bypassed())
	assert.True(t, ApiRoute.Bypassed())
	assert.False(t, PublicPath.Bypassed())
	assert.False(t, ProtectedPath.Bypassed())
}

func TestCustomRules(t *testing.T) {
	c := NewClassifier(Rules{
		AssetPrefixes: []string{"/public/"},
		APIPrefix:     "/rpc",
		PublicPages:   []string{"/welcome"},
	})

	assert.Equal(t, Asset, c.Classify("/public/x"))
	assert.Equal(t, ApiRoute, c.Classify("/rpc/orders"))
	assert.Equal(t, ProtectedPath, c.Classify("/api/orders"))
	assert.Equal(t, PublicPath, c.Classify("/welcome"))
	assert.Equal(t, ProtectedPath, c.Classify("/"))
}

func TestDecide(t *testing.T) {
	tests := []struct {
		classification Classification
		authenticated  bool
		want           Action
	}{
		{Asset, false, PassThrough},
		{Asset, true, PassThrough},
		{ApiRoute, false, PassThrough},
		{ApiRoute, true, PassThrough},
		{PublicPath, true, RedirectToDashboard},
		{PublicPath, false, PassThrough},
		{ProtectedPath, true, PassThrough},
		{ProtectedPath, false, RedirectToLogin},
	}

	for _, tt := range tests {
		name := tt.classification.String()
		if tt.authenticated {
			name += "/authenticated"
		} else {
			name += "/anonymous"
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.classification, tt.authenticated))
		})
	}
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "Asset", Asset.String())
	assert.Equal(t, "ApiRoute", ApiRoute.String())
	assert.Equal(t, "PublicPath", PublicPath.String())
	assert.Equal(t, "ProtectedPath", ProtectedPath.String())
	assert.Equal(t, "PassThrough", PassThrough.String())
	assert.Equal(t, "RedirectToLogin", RedirectToLogin.String())
	assert.Equal(t, "RedirectToDashboard", RedirectToDashboard.String())
}
