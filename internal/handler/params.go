package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/roadscan/internal/domain"
)

// bindPathParam binds a required simple-style path parameter, as generated
// chi servers do.
func bindPathParam(r *http.Request, name string, dest any) error {
	return runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
}

// bindQuery binds an optional form-style query parameter into dest, which
// must be a pointer to a pointer so absence leaves it nil.
func bindQuery(r *http.Request, name string, dest any) error {
	return runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest)
}

// paginationFromQuery reads ?page= and ?limit= (defaults page=1, limit=20, max=100).
func paginationFromQuery(r *http.Request) (domain.PaginationParams, error) {
	var page, limit *int
	if err := bindQuery(r, "page", &page); err != nil {
		return domain.PaginationParams{}, err
	}
	if err := bindQuery(r, "limit", &limit); err != nil {
		return domain.PaginationParams{}, err
	}
	return domain.NewPaginationParams(page, limit), nil
}

// togglesFromQuery reads the layer toggles (?cracks=false&high=false).
func togglesFromQuery(r *http.Request) (domain.Toggles, error) {
	return domain.ParseToggles(r.URL.Query().Get)
}
