package recommendation

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/quiz/questions", h.getQuestions)
	app.Post("/api/v1/quiz", h.startQuiz)
	app.Get("/api/v1/quiz/:id", h.getQuiz)
	app.Post("/api/v1/quiz/:id/answer", h.answer)
	app.Delete("/api/v1/quiz/:id", h.cancel)
}

type answerRequest struct {
	Option string `json:"option"`
}

func (h *Handler) getQuestions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"questions": Questions, "strategy": h.engine.Strategy().Name()})
}

func (h *Handler) startQuiz(c *fiber.Ctx) error {
	return c.Status(fiber.StatusCreated).JSON(h.engine.Start())
}

func (h *Handler) getQuiz(c *fiber.Ctx) error {
	s, err := h.engine.Current(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "quiz session not found"})
	}
	return c.JSON(s)
}

func (h *Handler) answer(c *fiber.Ctx) error {
	payload := new(answerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	s, err := h.engine.Answer(c.UserContext(), c.Params("id"), payload.Option)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "quiz session not found"})
		case errors.Is(err, ErrInvalidOption):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid option"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(s)
}

func (h *Handler) cancel(c *fiber.Ctx) error {
	if err := h.engine.Cancel(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "quiz session not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
