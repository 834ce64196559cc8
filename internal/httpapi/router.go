package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/santalucia-health/hospital-admin-service/internal/auth"
	"github.com/santalucia-health/hospital-admin-service/internal/service"
	"github.com/santalucia-health/hospital-admin-service/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// resourceHandler is the route surface every entity handler exposes.
type resourceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Transition(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	Reactivate(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// SetupRouter initializes all routes for the application
func SetupRouter(reg *service.Registry, verifier *auth.Verifier, perms auth.Permissions, metrics *telemetry.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("hospital-admin-service"))

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"hospital-admin-service"}`))
	}).Methods("GET")

	// Nil interface values keep the middleware's metrics branch disabled
	// instead of calling through a typed nil pointer.
	var authMetrics auth.MetricsRecorder
	var permMetrics auth.PermissionMetricsRecorder
	if metrics != nil {
		authMetrics = metrics
		permMetrics = metrics
	}

	m := mounter{
		router:      r,
		verifier:    verifier,
		perms:       perms,
		authMetrics: authMetrics,
		permMetrics: permMetrics,
	}

	m.resource("/patients", "patient", NewHandler(reg.Patients), false)
	m.resource("/practitioners", "practitioner", NewHandler(reg.Practitioners), false)
	m.resource("/nurses", "nurse", NewHandler(reg.Nurses), false)
	m.resource("/appointments", "appointment",
		NewHandler(reg.Appointments, "patientId", "practitionerId"), true)
	m.resource("/hospitalizations", "hospitalization",
		NewHandler(reg.Hospitalizations, "patientId", "practitionerId", "nurseId", "roomNumber"), true)
	m.resource("/invoices", "invoice",
		NewHandler(reg.Invoices, "patientId"), true)
	m.resource("/invoice-items", "invoice_item",
		NewHandler(reg.InvoiceItems, "invoiceId"), false)
	m.resource("/medical-records", "medical_record",
		NewHandler(reg.Records, "patientId"), true)
	m.resource("/medical-record-entries", "record_entry",
		NewHandler(reg.RecordEntries, "recordId", "practitionerId"), false)
	m.resource("/users", "user", NewHandler(reg.Users), false)

	return r
}

type mounter struct {
	router      *mux.Router
	verifier    *auth.Verifier
	perms       auth.Permissions
	authMetrics auth.MetricsRecorder
	permMetrics auth.PermissionMetricsRecorder
}

// guard wraps a handler with authentication and a permission requirement.
func (m mounter) guard(permission string, h http.HandlerFunc) http.Handler {
	return auth.MiddlewareWithMetrics(m.verifier, m.authMetrics)(
		auth.RequirePermissionWithMetrics(permission, m.perms, m.permMetrics)(h),
	)
}

// resource registers the standard route set for one entity kind. Permissions
// follow the "<name>:<operation>" convention from permissions.yml. Kinds
// without a lifecycle skip the transition route.
func (m mounter) resource(path, name string, h resourceHandler, withTransition bool) {
	m.router.Handle(path, m.guard(name+":create", h.Create)).Methods("POST")
	m.router.Handle(path, m.guard(name+":view", h.List)).Methods("GET")
	m.router.Handle(path+"/{id}", m.guard(name+":view", h.Get)).Methods("GET")
	m.router.Handle(path+"/{id}", m.guard(name+":update", h.Update)).Methods("PATCH")
	if withTransition {
		m.router.Handle(path+"/{id}/transition", m.guard(name+":transition", h.Transition)).Methods("POST")
	}
	m.router.Handle(path+"/{id}/deactivate", m.guard(name+":delete", h.Deactivate)).Methods("POST")
	m.router.Handle(path+"/{id}/reactivate", m.guard(name+":update", h.Reactivate)).Methods("POST")
	m.router.Handle(path+"/{id}", m.guard(name+":purge", h.Delete)).Methods("DELETE")
}
