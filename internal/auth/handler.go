package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const tokenTTL = 72 * time.Hour

type Handler struct {
	gateway *Gateway
	secret  []byte
	now     func() time.Time
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func NewHandler(gateway *Gateway, secret string) *Handler {
	return &Handler{gateway: gateway, secret: []byte(secret), now: time.Now}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-in", h.login)
	app.Post("/api/v1/sign-up", h.register)
	app.Post("/api/v1/sign-out", h.logout)
	app.Get("/api/v1/session", h.session)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/profile", h.getProfile)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	res := h.gateway.Login(c.UserContext(), payload.Email, payload.Password)
	if !res.Success {
		return c.Status(res.HTTPStatus()).JSON(res)
	}

	token, err := h.sign(res.User.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}
	return c.JSON(fiber.Map{"success": true, "user": res.User, "token": token})
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	res := h.gateway.Register(c.UserContext(), payload.Email, payload.Password, payload.FirstName, payload.LastName)
	if !res.Success {
		return c.Status(res.HTTPStatus()).JSON(res)
	}

	token, err := h.sign(res.User.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "user": res.User, "token": token})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	res := h.gateway.Logout(c.UserContext())
	return c.Status(res.HTTPStatus()).JSON(res)
}

func (h *Handler) session(c *fiber.Ctx) error {
	u, found := h.gateway.CurrentUser(c.UserContext())
	if !found {
		return c.JSON(fiber.Map{"authenticated": false})
	}
	return c.JSON(fiber.Map{"authenticated": true, "user": u})
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	email, err := EmailFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	res := h.gateway.UserProfile(c.UserContext(), email)
	if !res.Success {
		return c.Status(res.HTTPStatus()).JSON(res)
	}
	return c.JSON(res.User)
}

func (h *Handler) sign(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   h.now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}

// EmailFromCtx extracts the email claim from the JWT stored in
// c.Locals("user") by the auth middleware.
func EmailFromCtx(c *fiber.Ctx) (string, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	email, ok := claims["email"].(string)
	if !ok || strings.TrimSpace(email) == "" {
		return "", fiber.ErrUnauthorized
	}
	return email, nil
}
