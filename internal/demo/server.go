// Package demo serves a small form that round-trips through the relay.
package demo

import (
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zoobzio/boomerang"
	"github.com/zoobzio/boomerang/internal/metrics"
	"github.com/zoobzio/boomerang/middleware"
)

// ObjectID identifies the form object in redirect state.
const ObjectID = "@object"

const maxBodyBytes = 1 << 20

// Object is the model behind the demo form.
type Object struct {
	boomerang.Validations
	SomeField string `prg:"some_field"`
	Owner     string `prg:"owner,protected"`
}

// Server handles the demo routes.
type Server struct {
	relay   *boomerang.Relay
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewHandler creates the demo router. Object routes run behind a session
// resolved by resolver.
func NewHandler(relay *boomerang.Relay, resolver middleware.Resolver, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	s := &Server{relay: relay, metrics: m, logger: logger}

	r := chi.NewRouter()
	r.Handle("/metrics", m.Handler())
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/objects/new", http.StatusFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Sessions(resolver))
		r.Get("/objects/new", s.New)
		r.Post("/objects", s.Create)
		r.Get("/objects/done", s.Done)
	})

	return r
}

// New renders the form, restoring the object from a failed submission.
func (s *Server) New(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.SessionFrom(ctx)

	var obj Object
	start := time.Now()
	err := s.relay.Load(ctx, sess, boomerang.Targets{
		ObjectID: boomerang.Into(&obj, "some_field"),
	})
	s.metrics.ObserveLoad(time.Since(start), err)
	if err != nil {
		s.logger.Error("load redirect state", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, &obj)
}

// Create builds an Object from the submitted form. An empty some_field sends
// the object and its errors back to the form.
func (s *Server) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.SessionFrom(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	raw, err := boomerang.ParseQuery(string(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	submitted, err := raw.Require("object")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	params := submitted.Permit("some_field")

	obj, err := boomerang.Build[Object](params)
	if err != nil {
		s.fail(w, "build object", err)
		return
	}
	if obj.SomeField == "" {
		obj.Errors().Add("some_field", "not present")
	}

	if obj.Errors().Empty() {
		s.logger.Info("object created", "some_field", obj.SomeField)
		http.Redirect(w, r, "/objects/done", http.StatusSeeOther)
		return
	}

	start := time.Now()
	err = s.relay.Redirect(ctx, sess, ObjectID, obj, params)
	s.metrics.ObserveRedirect(time.Since(start), err)
	if err != nil {
		s.fail(w, "redirect", err)
		return
	}
	http.Redirect(w, r, "/objects/new", http.StatusSeeOther)
}

// Done confirms a successful submission.
func (s *Server) Done(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "<!DOCTYPE html><p>Saved.</p>")
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, "error", err)

	var unsafe *boomerang.UnsafeParametersError
	var access *boomerang.AccessViolationError
	if errors.As(err, &unsafe) || errors.As(err, &access) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<form method="post" action="/objects">
  <label for="some_field">Some field</label>
  <input id="some_field" name="object[some_field]" value="{{.SomeField}}">
  {{range .Errors.On "some_field"}}<p class="error">some_field {{.}}</p>
  {{end}}<button type="submit">Save</button>
</form>
`))

func (s *Server) render(w http.ResponseWriter, status int, obj *Object) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, obj); err != nil {
		s.logger.Error("render form", "error", err)
	}
}
