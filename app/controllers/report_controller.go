package controllers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/app/report"
	"github.com/shashiranjanraj/cakeshop/app/services"
	"github.com/shashiranjanraj/cakeshop/pkg/ctx"
)

// ReportController serves the admin revenue views. Both endpoints take an
// optional ?month=YYYY-MM.
type ReportController struct {
	orders *services.OrderService
	now    func() time.Time
}

func NewReportController(orders *services.OrderService) *ReportController {
	return &ReportController{orders: orders, now: time.Now}
}

func (rc *ReportController) Revenue(c *ctx.Context) {
	orders, _, ok := rc.load(c)
	if !ok {
		return
	}
	c.Success(report.Summarize(orders))
}

// OrdersCSV streams the export as a download.
func (rc *ReportController) OrdersCSV(c *ctx.Context) {
	orders, month, ok := rc.load(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, orders); err != nil {
		c.Fail(err)
		return
	}
	c.Attachment(report.FileName(month, rc.now()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (rc *ReportController) load(c *ctx.Context) ([]models.Order, *report.Month, bool) {
	var month *report.Month
	if q := c.Query("month"); q != "" {
		m, err := report.ParseMonth(q)
		if err != nil {
			c.Error(http.StatusBadRequest, err.Error())
			return nil, nil, false
		}
		month = &m
	}

	orders, err := rc.orders.List(c.Context())
	if err != nil {
		c.Fail(err)
		return nil, nil, false
	}
	if month != nil {
		orders = report.FilterMonth(orders, *month)
	}
	return orders, month, true
}
