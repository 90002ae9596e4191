package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/invitekeeper/internal/apierror"
)

func requestCount(t *testing.T, code string) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, httpRequestsCount.WithLabelValues(http.MethodGet, "/metrics-test/:id", code).Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetrics_Handle(t *testing.T) {
	m := NewMetrics()

	app := fiber.New()
	app.Use(m.Handle)
	app.Get("/metrics-test/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "missing" {
			return apierror.NewErrInviteNotFound("missing")
		}
		return c.SendStatus(http.StatusOK)
	})

	okBefore := requestCount(t, "200")
	notFoundBefore := requestCount(t, "404")

	for _, id := range []string{"a", "b", "missing"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics-test/"+id, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, okBefore+2, requestCount(t, "200"))
	assert.Equal(t, notFoundBefore+1, requestCount(t, "404"))
}
