package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/helpdesk-kit/ticketing-service/internal/observability"
	apperrors "github.com/helpdesk-kit/ticketing-service/pkg/util"
)

func TestFailedRequestRecordedWithErrorStatus(t *testing.T) {
	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	app.Get("/denied", func(c *fiber.Ctx) error {
		return apperrors.NewForbidden("no access")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/denied", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}

	requests, errCounters := metrics.Snapshot()
	if requests["/denied|GET|403"] != 1 {
		t.Errorf("request counters = %v, want one entry under /denied|GET|403", requests)
	}
	if errCounters["/denied|GET|FORBIDDEN"] != 1 {
		t.Errorf("error counters = %v, want one entry under /denied|GET|FORBIDDEN", errCounters)
	}
}

func TestSuccessfulRequestRecordedWithStatus(t *testing.T) {
	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	requests, _ := metrics.Snapshot()
	if requests["/ok|GET|204"] != 1 {
		t.Errorf("request counters = %v, want one entry under /ok|GET|204", requests)
	}
}

func TestUnmatchedRouteRendersNotFound(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/no-such-route", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
	if payload.Error.Code != "NOT_FOUND" {
		t.Errorf("error code = %q, want NOT_FOUND", payload.Error.Code)
	}
}
