package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rahulg963/udhaarbook/middleware"
	"github.com/rahulg963/udhaarbook/models"
	"github.com/rahulg963/udhaarbook/services"
	"github.com/rahulg963/udhaarbook/websocket"
)

type TransactionHandler struct {
	transactions *services.TransactionService
}

func NewTransactionHandler(transactions *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

type SubmitTransactionRequest struct {
	CounterpartyPhone string `json:"counterparty_phone" validate:"required,len=10,numeric"`
	Amount            int64  `json:"amount" validate:"required,min=1"`
	Description       string `json:"description"`
	Direction         string `json:"direction" validate:"required,oneof=gave got"`
}

func (h *TransactionHandler) Submit(c *fiber.Ctx) error {
	phone := middleware.PhoneFromToken(c)

	var req SubmitTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	txn, err := h.transactions.Submit(services.SubmitInput{
		InitiatorPhone:    phone,
		CounterpartyPhone: req.CounterpartyPhone,
		Amount:            req.Amount,
		Description:       req.Description,
		Direction:         models.TransactionDirection(req.Direction),
	})
	if err != nil {
		return serviceError(c, err)
	}

	websocket.Notify(txn.Counterparty(), websocket.Event{
		Type: websocket.EventTransactionPending,
		Data: txn,
	})

	return c.Status(fiber.StatusCreated).JSON(txn)
}

func (h *TransactionHandler) Confirm(c *fiber.Ctx) error {
	return h.settle(c, h.transactions.Confirm)
}

func (h *TransactionHandler) Deny(c *fiber.Ctx) error {
	return h.settle(c, h.transactions.Deny)
}

func (h *TransactionHandler) settle(c *fiber.Ctx, op func(uuid.UUID, string) (*models.Transaction, error)) error {
	phone := middleware.PhoneFromToken(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID format"})
	}

	txn, err := op(id, phone)
	if err != nil {
		return serviceError(c, err)
	}

	websocket.Notify(txn.InitiatedBy, websocket.Event{
		Type: websocket.EventTransactionSettled,
		Data: txn,
	})

	return c.JSON(txn)
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	phone := middleware.PhoneFromToken(c)

	filter, err := services.ParseTransactionFilter(c.Query("filter"))
	if err != nil {
		return serviceError(c, err)
	}

	txns, err := h.transactions.ListForUser(phone, filter)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"transactions": txns, "count": len(txns)})
}
