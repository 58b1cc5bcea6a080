package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
)

var errInvalidID = domain.NewValidation("Invalid ID")

// pathID binds the {id} path parameter and checks it is a document id.
func pathID(r *http.Request) (string, error) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return "", errInvalidID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", errInvalidID
	}
	return id.String(), nil
}

// listParams validates the query string against an endpoint allow-list.
func listParams(r *http.Request, allowed []string) (listquery.Params, error) {
	return listquery.FromValues(r.URL.Query(), allowed)
}
