package errors

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
)

// ProblemDetails is an RFC 7807 error body.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Additional fields for extensibility
	Extensions map[string]interface{} `json:"-"`
}

// NewProblemDetails creates a problem with the standard fields set
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:       problemType,
		Title:      title,
		Status:     status,
		Detail:     detail,
		Instance:   instance,
		Extensions: make(map[string]interface{}),
	}
}

// WithExtension adds a non-standard member to the problem body
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	if pd.Extensions == nil {
		pd.Extensions = make(map[string]interface{})
	}
	pd.Extensions[key] = value
	return pd
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// MarshalJSON flattens extensions into the top-level object
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := make(map[string]interface{}, len(pd.Extensions)+5)

	for k, v := range pd.Extensions {
		data[k] = v
	}

	data["type"] = pd.Type
	data["title"] = pd.Title
	data["status"] = pd.Status
	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}

	return json.Marshal(data)
}
