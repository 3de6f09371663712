package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/drakos74/devcluster/internal/server"
)

const (
	maxUpload = 32 << 20

	contentHTML = "text/html; charset=utf-8"
	contentSVG  = "image/svg+xml"
	contentJSON = "application/json"
)

// Routes returns the http routes of the dashboard.
func Routes(s *Service) []server.Route {
	return []server.Route{
		{
			Action:      server.Dashboard,
			Method:      server.GET,
			ContentType: contentHTML,
			Exec:        s.page,
		},
		{
			Action: server.Dashboard,
			Path:   "upload",
			Method: server.POST,
			Exec:   s.upload,
		},
		{
			Action:      server.Plot,
			Path:        "scatter",
			Method:      server.GET,
			ContentType: contentSVG,
			Exec: s.svg(func(s *Service, r *http.Request, req Request) ([]byte, error) {
				return s.Scatter(r.Context(), req)
			}),
		},
		{
			Action:      server.Plot,
			Path:        "box",
			Method:      server.GET,
			ContentType: contentSVG,
			Exec: s.svg(func(s *Service, r *http.Request, req Request) ([]byte, error) {
				return s.Box(r.Context(), req)
			}),
		},
		{
			Action:      server.Api,
			Path:        "describe",
			Method:      server.GET,
			ContentType: contentJSON,
			Exec: func(r *http.Request, header http.Header) ([]byte, int, error) {
				req, err := ParseRequest(r.URL.Query(), s.config.MultiSelect)
				if err != nil {
					return nil, status(err), err
				}
				sel, err := s.Describe(r.Context(), req)
				if err != nil {
					return nil, status(err), err
				}
				return encode(sel)
			},
		},
		{
			Action:      server.Api,
			Path:        "legend",
			Method:      server.GET,
			ContentType: contentJSON,
			Exec: func(r *http.Request, header http.Header) ([]byte, int, error) {
				legend, err := s.Legend(r.Context())
				if err != nil {
					return nil, status(err), err
				}
				return encode(legend)
			},
		},
		server.Live(),
	}
}

func (s *Service) page(r *http.Request, header http.Header) ([]byte, int, error) {
	req, err := ParseRequest(r.URL.Query(), s.config.MultiSelect)
	if err != nil {
		return nil, status(err), err
	}
	v, err := s.Render(r.Context(), req)
	if err != nil {
		return nil, status(err), err
	}
	var buf bytes.Buffer
	if err := Page(&buf, v, s.config.Theme); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return buf.Bytes(), http.StatusOK, nil
}

// upload stores the posted dataset and redirects to the page rendering it.
// Without a file the page is shown again with its prompt.
func (s *Service) upload(r *http.Request, header http.Header) ([]byte, int, error) {
	if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, http.StatusBadRequest, fmt.Errorf("could not parse upload: %w", err)
	}
	file, _, err := r.FormFile("dataset")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		header.Set("Location", "/dashboard")
		return nil, http.StatusSeeOther, nil
	}
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("could not read upload: %w", err)
	}
	defer file.Close()

	id, err := s.Upload(r.Context(), file)
	if err != nil {
		return nil, status(err), err
	}
	header.Set("Location", "/dashboard?"+url.Values{"dataset": []string{id}}.Encode())
	return nil, http.StatusSeeOther, nil
}

func (s *Service) svg(exec func(s *Service, r *http.Request, req Request) ([]byte, error)) server.Handler {
	return func(r *http.Request, header http.Header) ([]byte, int, error) {
		req, err := ParseRequest(r.URL.Query(), s.config.MultiSelect)
		if err != nil {
			return nil, status(err), err
		}
		b, err := exec(s, r, req)
		if err != nil {
			return nil, status(err), err
		}
		return b, http.StatusOK, nil
	}
}

func encode(v interface{}) ([]byte, int, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("could not encode response: %w", err)
	}
	return b, http.StatusOK, nil
}

func status(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNothingToPlot):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
