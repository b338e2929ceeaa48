package productcontroller

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// rowInput reads one sheet row laid out as sheetHeaders.
func rowInput(row *xlsx.Row) (ProductInput, error) {
	get := func(index int) string {
		if index < len(row.Cells) {
			return strings.TrimSpace(row.Cells[index].String())
		}
		return ""
	}

	price, err := decimal.NewFromString(get(3))
	if err != nil {
		return ProductInput{}, err
	}
	in := ProductInput{
		Slug:        get(0),
		Name:        get(1),
		Category:    get(2),
		Price:       price,
		Sizes:       splitList(get(4)),
		Images:      splitList(get(5)),
		Description: get(8),
	}
	if v := get(6); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return ProductInput{}, err
		}
		in.InStock = &b
	}
	in.Featured, _ = strconv.ParseBool(get(7))
	return in, nil
}

// ImportProductsFromExcel creates products from an uploaded sheet. Rows whose
// slug already exists update the live price only.
func ImportProductsFromExcel(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || len(xlFile.Sheets[0].Rows) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		ctx := c.Request.Context()
		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i, row := range sheet.Rows[1:] {
			in, err := rowInput(row)
			if err != nil {
				log.Printf("⚠️ Skipping product row %d: %v", i+2, err)
				skippedCount++
				continue
			}
			product, err := in.Product()
			if err != nil {
				log.Printf("⚠️ Skipping product row %d: %v", i+2, err)
				skippedCount++
				continue
			}

			id := uuid.NewString()
			product.ID = id
			price := product.Price
			if err := d.Store.UpsertProduct(ctx, &product); err != nil {
				log.Printf("❌ Failed to import %s: %v", product.Slug, err)
				skippedCount++
				continue
			}
			switch {
			case product.ID == id:
				createdCount++
			case !product.Price.Equal(price):
				if _, err := d.Store.UpdateProductPrice(ctx, product.ID, price); err != nil {
					skippedCount++
					continue
				}
				updatedCount++
			default:
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
