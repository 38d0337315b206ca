package observability

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScrapeHandler serves the arcms_* collectors on the Prometheus scrape
// endpoint. Registration is forced first so a scrape that arrives before the
// first request still reports every series.
func ScrapeHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
