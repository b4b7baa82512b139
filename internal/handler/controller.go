package handler

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"datadoc-go/internal/service"
	"datadoc-go/pkg/logger"
)

// Controller exposes a finished documentation run over HTTP.
type Controller struct {
	store   service.CatalogStore
	csvPath string
	log     *logger.Logger
}

// NewController creates the catalog API controller. csvPath may be
// empty when no CSV artifact exists; the export route then answers 404.
func NewController(store service.CatalogStore, csvPath string) *Controller {
	return &Controller{
		store:   store,
		csvPath: csvPath,
		log:     logger.GetLogger().WithField("component", "catalog_api"),
	}
}

// RegisterRoutes mounts the catalog API onto a fiber app.
func (h *Controller) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.Health)

	v1 := app.Group("/api/v1")
	v1.Get("/datasets", h.ListDatasets)
	v1.Get("/datasets/:id", h.GetDataset)
	v1.Get("/export/csv", h.ExportCSV)
}

func (h *Controller) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"run_id":  h.store.RunID(),
		"records": h.store.Count(),
	})
}

// ListDatasets returns the full catalog sorted by dataset name. The
// optional ?name= query filters by substring, case-insensitive.
func (h *Controller) ListDatasets(c *fiber.Ctx) error {
	records := h.store.List(c.Query("name"))
	return c.JSON(fiber.Map{
		"count":   len(records),
		"records": records,
	})
}

func (h *Controller) GetDataset(c *fiber.Ctx) error {
	identifier := c.Params("id")
	records, ok := h.store.ByIdentifier(identifier)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown dataset identifier: " + identifier,
		})
	}
	return c.JSON(fiber.Map{
		"identifier": identifier,
		"records":    records,
	})
}

// ExportCSV serves the CSV artifact written by the batch run.
func (h *Controller) ExportCSV(c *fiber.Ctx) error {
	if h.csvPath == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no CSV artifact configured",
		})
	}
	if _, err := os.Stat(h.csvPath); err != nil {
		h.log.WithError(err).WithField("path", h.csvPath).Warn("CSV artifact missing")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "CSV artifact not found; run the batch first",
		})
	}
	return c.Download(h.csvPath, "dataset_documentation.csv")
}
