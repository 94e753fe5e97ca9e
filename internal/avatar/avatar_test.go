package avatar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdenticon(t *testing.T) {
	tests := []struct {
		name     string
		wantSlug string
		wantText string
	}{
		{"Ada Lovelace", "alovelace", "AL"},
		{"Prince", "p", "P"},
		{"Mary Ann Shelley", "mshelley", "MS"},
		{"Åsa Larsson", "ålarsson", "ÅL"},
		{"Øyvind", "ø", "Ø"},
		{"  spaced  out  ", "sout", "SO"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.name), func(t *testing.T) {
			slug, text := identicon(tt.name)
			assert.Equal(t, tt.wantSlug, slug)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestFetch(t *testing.T) {
	t.Run("returns the SVG text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/alovelace.svg", r.URL.Path)
			assert.Equal(t, "AL", r.URL.Query().Get("text"))
			fmt.Fprint(w, "<svg>ada</svg>")
		}))
		defer srv.Close()

		svg, err := NewClient(srv.URL).Fetch(context.Background(), "Ada Lovelace")
		require.NoError(t, err)
		assert.Equal(t, "<svg>ada</svg>", svg)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Fetch(context.Background(), "Ada Lovelace")
		assert.Error(t, err)
	})

	t.Run("empty name never hits the network", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Fetch(context.Background(), "   ")
		assert.Error(t, err)
	})
}
