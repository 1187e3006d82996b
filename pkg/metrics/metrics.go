package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Contadores de negocio. Se registran en el registry global de prometheus.
var (
	// SyncItemsProcessed cuenta ítems de la cola de sincronización por estado
	// terminal (applied, conflict, failed, duplicate).
	SyncItemsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmasync_sync_items_total",
		Help: "Ítems de sincronización procesados por estado",
	}, []string{"status"})

	// SalesCreated cuenta ventas confirmadas (checkout directo y sync).
	SalesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmasync_sales_created_total",
		Help: "Ventas creadas",
	})
)

// Handler expone /metrics en formato prometheus adaptado a fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
