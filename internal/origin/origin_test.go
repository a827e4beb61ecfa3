package origin

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowList(t *testing.T) {
	list := NewAllowList("https://shop.example", " https://www.example ", "")

	assert.True(t, list.Allows("https://shop.example"))
	assert.True(t, list.Allows("https://www.example"))
	assert.False(t, list.Allows("https://shop.example/"))
	assert.False(t, list.Allows("http://shop.example"))
	assert.False(t, list.Allows("HTTPS://SHOP.EXAMPLE"))
	assert.False(t, list.Allows(""))
	assert.Equal(t, []string{"https://shop.example", "https://www.example"}, list.Origins())
}

func TestAllowListIsImmutable(t *testing.T) {
	src := []string{"https://a.example"}
	list := NewAllowList(src...)
	src[0] = "https://b.example"

	got := list.Origins()
	got[0] = "https://c.example"

	assert.True(t, list.Allows("https://a.example"))
	assert.False(t, list.Allows("https://b.example"))
	assert.False(t, list.Allows("https://c.example"))
}

func TestSetCORS(t *testing.T) {
	h := http.Header{}
	SetCORS(h, "https://shop.example")

	assert.Equal(t, "https://shop.example", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", h.Get("Vary"))
	assert.Equal(t, "POST, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", h.Get("Access-Control-Allow-Headers"))
}
