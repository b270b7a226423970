package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Samuel04-png/loansage-sub000/internal/domain/customer"
)

type CustomerHandler struct {
	customerService *customer.Service
}

func NewCustomerHandler(customerService *customer.Service) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

type registerCustomerRequest struct {
	BranchID string `json:"branch_id"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IDType   string `json:"id_type" binding:"required"`
	IDNumber string `json:"id_number" binding:"required"`
}

func (h *CustomerHandler) Register(c *gin.Context) {
	var req registerCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	item, err := h.customerService.Register(c.Request.Context(), customer.RegisterInput{
		BranchID: req.BranchID,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		IDType:   req.IDType,
		IDNumber: req.IDNumber,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "register_customer_failed"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customerID := strings.TrimSpace(c.Param("customerId"))
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_customer_id"})
		return
	}
	item, err := h.customerService.Get(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer_not_found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	limit, _ := strconv.ParseInt(strings.TrimSpace(c.DefaultQuery("limit", "50")), 10, 32)
	offset, _ := strconv.ParseInt(strings.TrimSpace(c.DefaultQuery("offset", "0")), 10, 32)
	items, err := h.customerService.List(c.Request.Context(), customer.ListFilter{
		BranchID: strings.TrimSpace(c.Query("branch_id")),
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_customers_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
