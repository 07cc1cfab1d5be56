package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/opportunities/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/opportunities/{id}", "404"))

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/opportunities/"+id, nil))
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/opportunities/{id}", "404"))
	assert.Equal(t, 3.0, after-before)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(applications.WithLabelValues("accepted"))
	ApplicationEvent("accepted")
	assert.Equal(t, 1.0, testutil.ToFloat64(applications.WithLabelValues("accepted"))-before)

	before = testutil.ToFloat64(registrations.WithLabelValues("volunteer"))
	UserRegistered("volunteer")
	assert.Equal(t, 1.0, testutil.ToFloat64(registrations.WithLabelValues("volunteer"))-before)
}

func TestHandlerExposesRegistry(t *testing.T) {
	OpportunityCreated()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "socioplus_opportunities_created_total")
}
