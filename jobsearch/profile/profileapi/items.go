package profileapi

import (
	"context"

	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// itemService abstracts one sub-resource of a profile. All eight sub-entities
// share the same route shape, so the handlers are generated generically.
type itemService[Req any, E any] struct {
	list   func(ctx context.Context, profileID kernel.ProfileID) ([]E, error)
	create func(ctx context.Context, profileID kernel.ProfileID, req Req) (*E, error)
	update func(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, req Req) (*E, error)
	remove func(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error
}

func registerItemRoutes[Req any, E any](api fiber.Router, path string, validate *validator.Validate, svc itemService[Req, E]) {
	api.Get("/:id/"+path, func(c *fiber.Ctx) error {
		profileID, err := profileIDParam(c)
		if err != nil {
			return err
		}
		items, err := svc.list(c.Context(), profileID)
		if err != nil {
			return err
		}
		return c.JSON(items)
	})

	api.Post("/:id/"+path, func(c *fiber.Ctx) error {
		profileID, err := profileIDParam(c)
		if err != nil {
			return err
		}
		req, err := parseItemBody[Req](c, validate)
		if err != nil {
			return err
		}
		item, err := svc.create(c.Context(), profileID, req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	api.Put("/:id/"+path+"/:itemId", func(c *fiber.Ctx) error {
		profileID, err := profileIDParam(c)
		if err != nil {
			return err
		}
		itemID, err := itemIDParam(c)
		if err != nil {
			return err
		}
		req, err := parseItemBody[Req](c, validate)
		if err != nil {
			return err
		}
		item, err := svc.update(c.Context(), profileID, itemID, req)
		if err != nil {
			return err
		}
		return c.JSON(item)
	})

	api.Delete("/:id/"+path+"/:itemId", func(c *fiber.Ctx) error {
		profileID, err := profileIDParam(c)
		if err != nil {
			return err
		}
		itemID, err := itemIDParam(c)
		if err != nil {
			return err
		}
		if err := svc.remove(c.Context(), profileID, itemID); err != nil {
			return err
		}
		return c.Status(fiber.StatusNoContent).Send(nil)
	})
}

func parseItemBody[Req any](c *fiber.Ctx, validate *validator.Validate) (Req, error) {
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return req, profile.ErrInvalidPayload().WithDetail("parse_error", err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return req, profile.ErrInvalidPayload().WithDetail("validation_error", err.Error())
	}
	return req, nil
}
