package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/contracts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/contracts/:id", "200"))

	for _, path := range []string{"/contracts/1", "/contracts/2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/contracts/:id", "200"))
	assert.Equal(t, 2.0, after-before)
}

func TestRecordPayment(t *testing.T) {
	successBefore := testutil.ToFloat64(jobPayments.WithLabelValues(OutcomeSuccess))
	failureBefore := testutil.ToFloat64(jobPayments.WithLabelValues(OutcomeFailure))
	amountBefore := testutil.ToFloat64(movedAmount.WithLabelValues("payment"))

	RecordPayment(true, 200)
	RecordPayment(false, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(jobPayments.WithLabelValues(OutcomeSuccess))-successBefore)
	assert.Equal(t, 1.0, testutil.ToFloat64(jobPayments.WithLabelValues(OutcomeFailure))-failureBefore)
	assert.Equal(t, 200.0, testutil.ToFloat64(movedAmount.WithLabelValues("payment"))-amountBefore)
}

func TestHandlerServesExposition(t *testing.T) {
	RecordDeposit(true, 1)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "payments_ledger_deposits_total")
}
