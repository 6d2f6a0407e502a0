package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/splitora/client/internal/authstate"
	"github.com/splitora/client/pkg/model"
)

// SplitoraService is the subset of the Splitora API the gateway exposes.
type SplitoraService interface {
	Login(ctx context.Context, creds model.Credentials) (*model.User, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*model.User, error)
	ListGroups(ctx context.Context) ([]model.Group, error)
	GetGroup(ctx context.Context, id string) (*model.Group, error)
	CreateGroup(ctx context.Context, in model.GroupInput) (*model.Group, error)
	ListExpenses(ctx context.Context, groupID string) ([]model.Expense, error)
	CreateExpense(ctx context.Context, groupID string, in model.ExpenseInput) (*model.Expense, error)
	ListSettlements(ctx context.Context, groupID string) ([]model.Settlement, error)
	MarkPaid(ctx context.Context, groupID, settlementID string) error
}

// Handler serves the local gateway routes.
type Handler struct {
	logger  *zap.Logger
	service SplitoraService
	state   *authstate.State
}

func NewHandler(logger *zap.Logger, service SplitoraService, state *authstate.State) *Handler {
	return &Handler{logger: logger, service: service, state: state}
}

// Session reports the login status and the re-authentication prompt.
func (h *Handler) Session(c *fiber.Ctx) error {
	msg, shown := h.state.Prompt()
	resp := SessionResponse{Status: h.state.Status().String(), PromptShown: shown}
	if shown {
		resp.PromptMessage = msg
	}
	return ok(c, fiber.StatusOK, resp)
}

// DismissPrompt hides the re-authentication prompt.
func (h *Handler) DismissPrompt(c *fiber.Ctx) error {
	h.state.DismissPrompt()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	user, err := h.service.Login(c.UserContext(), model.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		h.logger.Warn("gateway.login_failed", zap.Error(err))
		return fail(c, err)
	}
	h.state.LoggedIn()
	return ok(c, fiber.StatusOK, user)
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.state.Logout(c.UserContext(), h.service); err != nil {
		h.logger.Error("gateway.logout_failed", zap.Error(err))
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.service.Profile(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, user)
}

func (h *Handler) ListGroups(c *fiber.Ctx) error {
	groups, err := h.service.ListGroups(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	if groups == nil {
		groups = []model.Group{}
	}
	return ok(c, fiber.StatusOK, groups)
}

func (h *Handler) GetGroup(c *fiber.Ctx) error {
	g, err := h.service.GetGroup(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, g)
}

func (h *Handler) CreateGroup(c *fiber.Ctx) error {
	var req GroupCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	g, err := h.service.CreateGroup(c.UserContext(), model.GroupInput{Name: req.Name, Description: req.Description})
	if err != nil {
		h.logger.Warn("gateway.create_group_failed", zap.Error(err))
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, g)
}

func (h *Handler) ListExpenses(c *fiber.Ctx) error {
	out, err := h.service.ListExpenses(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if out == nil {
		out = []model.Expense{}
	}
	return ok(c, fiber.StatusOK, out)
}

func (h *Handler) CreateExpense(c *fiber.Ctx) error {
	var req ExpenseCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err)
	}

	e, err := h.service.CreateExpense(c.UserContext(), c.Params("id"), model.ExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		PayerID:     req.PayerID,
	})
	if err != nil {
		h.logger.Warn("gateway.create_expense_failed",
			zap.String("group", c.Params("id")),
			zap.Error(err))
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, e)
}

func (h *Handler) ListSettlements(c *fiber.Ctx) error {
	out, err := h.service.ListSettlements(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if out == nil {
		out = []model.Settlement{}
	}
	return ok(c, fiber.StatusOK, out)
}

func (h *Handler) MarkPaid(c *fiber.Ctx) error {
	if err := h.service.MarkPaid(c.UserContext(), c.Params("id"), c.Params("sid")); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}
