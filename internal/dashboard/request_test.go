package dashboard

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {

	type test struct {
		query string
		multi bool
		req   Request
		err   bool
	}

	tests := map[string]test{
		"defaults": {
			req: Request{Clusters: []int{0}, Mode: Precomputed},
		},
		"single-select": {
			query: "cluster=3&cluster=1",
			req:   Request{Clusters: []int{2}, Mode: Precomputed},
		},
		"multi-select": {
			query: "cluster=3&cluster=1",
			multi: true,
			req:   Request{Clusters: []int{2, 0}, Mode: Precomputed},
		},
		"predict": {
			query: "mode=predict&feature=GDP&feature=+&feature=Birth+Rate&x=GDP&y=Birth+Rate&box=GDP",
			req: Request{
				Clusters: []int{0},
				Mode:     Predict,
				Features: []string{"GDP", "Birth Rate"},
				X:        "GDP",
				Y:        "Birth Rate",
				Box:      "GDP",
			},
		},
		"toggles": {
			query: "raw=on&only=true&dataset=42",
			req:   Request{Clusters: []int{0}, Mode: Precomputed, Raw: true, Only: true, Dataset: "42"},
		},
		"cluster-not-a-number": {query: "cluster=abc", err: true},
		"cluster-zero":         {query: "cluster=0", err: true},
		"unknown-mode":         {query: "mode=guess", err: true},
		"bad-toggle":           {query: "raw=maybe", err: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			req, err := ParseRequest(q, tt.multi)
			if tt.err {
				assert.True(t, errors.Is(err, ErrBadRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req, req)

			// the encoded request parses back to itself
			again, err := ParseRequest(req.Query(), tt.multi)
			require.NoError(t, err)
			assert.Equal(t, req, again)
		})
	}
}

func TestRequest_Selected(t *testing.T) {
	req := Request{Clusters: []int{1, 3}}
	assert.True(t, req.Selected(1))
	assert.True(t, req.Selected(3))
	assert.False(t, req.Selected(0))
}
