package system

import (
	"go-propdesk/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsApi struct {
	gatherer prometheus.Gatherer
}

func NewMetricsApi(reg *prometheus.Registry) api.Route {
	return &MetricsApi{gatherer: reg}
}

// Setup exposes the Prometheus scrape endpoint
func (h *MetricsApi) Setup(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
}
