package transactions

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ishantswami13-crypto/ledger-api/internal/money"
	"github.com/ishantswami13-crypto/ledger-api/internal/session"
)

type Handler struct {
	Service      *Service
	SecureCookie bool

	validate *validator.Validate
}

func NewHandler(svc *Service, secureCookie bool) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "params"} {
			if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return &Handler{Service: svc, SecureCookie: secureCookie, validate: v}
}

// Create stores a transaction and, for a first-time caller, starts a session.
func (h *Handler) Create(c *fiber.Ctx) error {
	var body createTxnRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	body.Title = strings.TrimSpace(body.Title)
	if err := h.validate.Struct(body); err != nil {
		return validationErr(c, err)
	}

	sessionID, isNew := session.Resolve(c)

	_, err := h.Service.Create(userContext(c), sessionID, CreateInput{
		Title:  body.Title,
		Amount: body.Amount.Decimal,
		Type:   money.Kind(body.Type),
	})
	if err != nil {
		if errors.Is(err, ErrEmptyTitle) || errors.Is(err, money.ErrInvalidKind) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	if isNew {
		session.SetCookie(c, sessionID, h.SecureCookie)
	}
	return c.Status(fiber.StatusCreated).Send(nil)
}

func (h *Handler) List(c *fiber.Ctx) error {
	sessionID, ok := session.FromCtx(c)
	if !ok {
		return session.ErrUnauthorized
	}

	items, err := h.Service.List(userContext(c), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(ListResponse{Transactions: items})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	sessionID, ok := session.FromCtx(c)
	if !ok {
		return session.ErrUnauthorized
	}

	var params getTxnParams
	if err := c.ParamsParser(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid params")
	}
	if err := h.validate.Struct(params); err != nil {
		return validationErr(c, err)
	}
	id, err := uuid.Parse(params.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a UUID")
	}

	t, err := h.Service.Get(userContext(c), sessionID, id)
	if err != nil {
		return err
	}
	return c.JSON(GetResponse{Transaction: t})
}

func (h *Handler) Summary(c *fiber.Ctx) error {
	sessionID, ok := session.FromCtx(c)
	if !ok {
		return session.ErrUnauthorized
	}

	s, err := h.Service.Summary(userContext(c), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(SummaryResponse{Summary: []Summary{s}})
}

func (h *Handler) Statement(c *fiber.Ctx) error {
	sessionID, ok := session.FromCtx(c)
	if !ok {
		return session.ErrUnauthorized
	}

	st, err := h.Service.Statement(userContext(c), sessionID)
	if err != nil {
		return err
	}

	now := time.Now()
	doc, err := st.PDF(now)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="statement-`+now.UTC().Format("2006-01-02")+`.pdf"`)
	return c.Send(doc)
}

func validationErr(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "required"
		case "oneof":
			fields[fe.Field()] = "must be one of: " + fe.Param()
		case "uuid_rfc4122":
			fields[fe.Field()] = "must be a UUID"
		default:
			fields[fe.Field()] = "invalid"
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "validation failed",
		"fields": fields,
	})
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
