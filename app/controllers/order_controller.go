package controllers

import (
	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/app/services"
	"github.com/shashiranjanraj/cakeshop/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func (oc *OrderController) Index(c *ctx.Context) {
	orders, err := oc.orders.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

// Store places an order. Required fields are checked by the service so the
// client always sees the same message; a body that does not decode is
// treated as an empty checkout.
func (oc *OrderController) Store(c *ctx.Context) {
	var in models.OrderInput
	if _, err := c.ShouldBindJSON(&in); err != nil {
		c.Logger().Debug("orders: undecodable checkout body", "error", err)
		in = models.OrderInput{}
	}

	o, err := oc.orders.Create(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(o)
}

func (oc *OrderController) Show(c *ctx.Context) {
	o, err := oc.orders.Get(c.Context(), c.ParamUint("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(o)
}

type statusInput struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/orders/{id}/status.
func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	var in statusInput
	if !c.BindJSON(&in) {
		return
	}

	o, err := oc.orders.SetStatus(c.Context(), c.ParamUint("id"), in.Status)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(o)
}
