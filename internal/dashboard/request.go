package dashboard

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Mode decides how rows are assigned to clusters.
type Mode string

const (
	Precomputed Mode = "precomputed"
	Predict     Mode = "predict"
)

var ErrBadRequest = errors.New("bad request")

// Request holds the choices of the user for one render.
type Request struct {
	// Clusters are zero-based cluster indexes.
	Clusters []int
	Mode     Mode
	Features []string
	X, Y     string
	Box      string
	Raw      bool
	Only     bool
	// Dataset is the id of an uploaded dataset.
	Dataset string
}

// ParseRequest reads the request from the query values.
// Clusters are one-based in the query, as shown to the user.
// Without multi only the first cluster is kept.
func ParseRequest(q url.Values, multi bool) (Request, error) {
	req := Request{
		Mode:     Precomputed,
		Features: nonEmpty(q["feature"]),
		X:        strings.TrimSpace(q.Get("x")),
		Y:        strings.TrimSpace(q.Get("y")),
		Box:      strings.TrimSpace(q.Get("box")),
		Dataset:  strings.TrimSpace(q.Get("dataset")),
	}

	for _, s := range nonEmpty(q["cluster"]) {
		c, err := strconv.Atoi(s)
		if err != nil || c < 1 {
			return req, fmt.Errorf("cluster '%s': %w", s, ErrBadRequest)
		}
		req.Clusters = append(req.Clusters, c-1)
	}
	if len(req.Clusters) == 0 {
		req.Clusters = []int{0}
	}
	if !multi {
		req.Clusters = req.Clusters[:1]
	}

	switch mode := Mode(q.Get("mode")); mode {
	case "":
	case Precomputed, Predict:
		req.Mode = mode
	default:
		return req, fmt.Errorf("mode '%s': %w", mode, ErrBadRequest)
	}

	var err error
	if req.Raw, err = flag(q, "raw"); err != nil {
		return req, err
	}
	if req.Only, err = flag(q, "only"); err != nil {
		return req, err
	}
	return req, nil
}

// Query encodes the request back into query values.
func (r Request) Query() url.Values {
	q := url.Values{}
	for _, c := range r.Clusters {
		q.Add("cluster", strconv.Itoa(c+1))
	}
	q.Set("mode", string(r.Mode))
	for _, f := range r.Features {
		q.Add("feature", f)
	}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("x", r.X)
	set("y", r.Y)
	set("box", r.Box)
	set("dataset", r.Dataset)
	if r.Raw {
		q.Set("raw", "true")
	}
	if r.Only {
		q.Set("only", "true")
	}
	return q
}

// Selected reports whether the cluster is part of the request.
func (r Request) Selected(c int) bool {
	for _, s := range r.Clusters {
		if s == c {
			return true
		}
	}
	return false
}

func flag(q url.Values, key string) (bool, error) {
	s := q.Get(key)
	if s == "" {
		return false, nil
	}
	if s == "on" {
		return true, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s '%s': %w", key, s, ErrBadRequest)
	}
	return b, nil
}

func nonEmpty(values []string) []string {
	var vv []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			vv = append(vv, v)
		}
	}
	return vv
}
