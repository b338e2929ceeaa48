package productcontroller

import (
	"net/http"
	"strings"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// sheetHeaders is the column layout shared by export and import.
var sheetHeaders = []string{
	"Slug", "Name", "Category", "Price", "Sizes", "Images", "InStock", "Featured", "Description",
}

func ExportProductsToExcel(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := d.Store.ListProducts(c.Request.Context())
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range sheetHeaders {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.Slug)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Category)
			row.AddCell().SetValue(p.Price.StringFixed(2))
			row.AddCell().SetValue(strings.Join(p.Sizes, ","))
			row.AddCell().SetValue(strings.Join(p.Images, ","))
			row.AddCell().SetBool(p.InStock)
			row.AddCell().SetBool(p.Featured)
			row.AddCell().SetValue(p.Description)
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
