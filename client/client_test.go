package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestURLRoutesPagesThroughDisplayScript(t *testing.T) {
	assert.Equal(t,
		"http://world-fr.openfoodfacts.localhost/cgi/display.pl?/product/35242200055",
		TestURL("world-fr", "/product/35242200055"))
}

func TestTestURLLeavesCGIPathsAlone(t *testing.T) {
	assert.Equal(t,
		"http://world.openfoodfacts.localhost/cgi/login.pl",
		TestURL("", "/cgi/login.pl"))
}

func TestTestURLLeavesAPIPathsAlone(t *testing.T) {
	assert.Equal(t,
		"http://world.openfoodfacts.localhost/api/v2/product/123",
		TestURL("", "/api/v2/product/123"))
}

func TestTestURLDefaultsToWorldSubdomain(t *testing.T) {
	assert.Equal(t, "http://world.openfoodfacts.localhost", BaseURL(""))
	assert.Equal(t, "http://world-pt.openfoodfacts.localhost", BaseURL("world-pt"))
}

func TestNewTestClientHasItsOwnCookieStore(t *testing.T) {
	c1 := NewTestClient()
	c2 := NewTestClient()
	assert.NotNil(t, c1.Jar)
	assert.NotNil(t, c2.Jar)
	assert.NotSame(t, c1.Jar, c2.Jar, "clients must not share session state")
}
