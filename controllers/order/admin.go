package orderControllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

const filterAll = "all"

// adminFilter reads ?status= and ?paymentStatus=. Payment status defaults to
// paid; "all" disables either filter.
func adminFilter(c *gin.Context) (models.OrderFilter, error) {
	var f models.OrderFilter

	if v := strings.TrimSpace(c.Query("status")); v != "" && v != filterAll {
		s, err := models.ParseOrderStatus(v)
		if err != nil {
			return f, apperrors.Invalid("status", "%v", err)
		}
		f.Status = s
	}

	v := strings.TrimSpace(c.DefaultQuery("paymentStatus", string(models.PaymentStatusPaid)))
	if v != "" && v != filterAll {
		s, err := models.ParsePaymentStatus(v)
		if err != nil {
			return f, apperrors.Invalid("paymentStatus", "%v", err)
		}
		f.PaymentStatus = s
	}
	return f, nil
}

// GET /admin/orders
func GetAllOrdersHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := adminFilter(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		orders, err := s.ListOrders(c.Request.Context(), f)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if orders == nil {
			orders = []models.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}

func itemSummary(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (%s) x%d", it.ProductName, it.Size, it.Quantity))
	}
	return strings.Join(parts, ", ")
}

// GET /admin/orders/export
func ExportOrdersToExcel(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := adminFilter(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		orders, err := s.ListOrders(c.Request.Context(), f)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"Order Number", "Date", "Customer", "Phone", "City", "Pincode", "Items",
			"Subtotal", "Shipping", "Total", "Status", "Payment Status", "Payment Method", "Tracking Number",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderNumber)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(o.ShippingAddress.FullName)
			row.AddCell().SetValue(o.ShippingAddress.Phone)
			row.AddCell().SetValue(o.ShippingAddress.City)
			row.AddCell().SetValue(o.ShippingAddress.Pincode)
			row.AddCell().SetValue(itemSummary(o.Items))
			row.AddCell().SetValue(o.Subtotal.StringFixed(2))
			row.AddCell().SetValue(o.Shipping.StringFixed(2))
			row.AddCell().SetValue(o.Total.StringFixed(2))
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(string(o.PaymentMethod))
			row.AddCell().SetValue(o.TrackingNumber)
		}

		name := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
		c.Header("Content-Disposition", "attachment; filename="+name)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
