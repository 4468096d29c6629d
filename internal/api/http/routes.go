package httpapi

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/westpointwind/marine-api/internal/marine"
	"github.com/westpointwind/marine-api/internal/marine/summary"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc *marine.Service, gen *summary.Generator) {
	app.Get("/observations", handleObservations(svc))
	app.Get("/forecast", handleForecast(svc))
	app.Get("/summary", handleSummary(svc, gen))
}

// handleObservations serves the merged buoy/tide record. Station parameters
// are sanitized inside the service; hostile values silently fall back to the
// configured defaults rather than erroring.
func handleObservations(svc *marine.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		obs, hit, errs := svc.GetObservations(c.Context(), c.Query("station"), c.Query("tideStation"))
		if len(errs) > 0 {
			return errorListResponse(c, errs)
		}

		if hit {
			c.Set("X-Cache", "HIT")
		} else {
			setFreshCacheHeaders(c, svc.ObservationsTTL())
		}
		return c.JSON(obs)
	}
}

func handleForecast(svc *marine.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bundle, hit, err := svc.GetForecast(c.Context(), c.Query("station"))
		if err != nil {
			return errorListResponse(c, []error{err})
		}

		if hit {
			c.Set("X-Cache", "HIT")
		} else {
			setFreshCacheHeaders(c, svc.ForecastTTL())
		}
		return c.JSON(bundle)
	}
}

// summaryQuery holds the optional current-wind parameter for /summary.
type summaryQuery struct {
	WindSpeed *float64 `validate:"omitempty,gte=0,lte=200"`
}

func (q *summaryQuery) bind(c *fiber.Ctx) error {
	raw := c.Query("windSpeed")
	if raw == "" {
		return nil
	}
	ws, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid windSpeed: %q", raw)
	}
	q.WindSpeed = &ws
	return nil
}

func handleSummary(svc *marine.Service, gen *summary.Generator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q summaryQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		bundle, hit, err := svc.GetForecast(c.Context(), c.Query("station"))
		if err != nil {
			return errorListResponse(c, []error{err})
		}

		var current *summary.CurrentConditions
		if q.WindSpeed != nil {
			current = &summary.CurrentConditions{WindSpeed: q.WindSpeed}
		}

		// X-Cache reports whether the underlying forecast came from the cache.
		// The summary text itself is re-randomized on every request, so no
		// Cache-Control directive is emitted here.
		if hit {
			c.Set("X-Cache", "HIT")
		} else {
			c.Set("X-Cache", "MISS")
		}
		return c.JSON(fiber.Map{
			"stationId": bundle.StationID,
			"summary":   gen.Generate(bundle.Periods, current),
		})
	}
}

// setFreshCacheHeaders tags a response built from a fresh upstream fetch and
// mirrors the server-side TTL into the HTTP caching directive.
func setFreshCacheHeaders(c *fiber.Ctx, ttl time.Duration) {
	secs := int(ttl.Seconds())
	c.Set("X-Cache", "MISS")
	c.Set("Cache-Control", fmt.Sprintf("public, max-age=%d, s-maxage=%d", secs, secs))
}

// errorListResponse reports every collected upstream failure so operators can
// tell which source is unhealthy.
func errorListResponse(c *fiber.Ctx, errs []error) error {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"errors": msgs})
}
