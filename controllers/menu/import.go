package menuControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/junaidrashid-git/bistro-boss-api/controllers"
	"github.com/junaidrashid-git/bistro-boss-api/models"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

// POST /menu/import
//
// Reads the first sheet of an uploaded workbook laid out like the export
// (ID, Name, Category, Price, Recipe, Image) and inserts every row as a new
// item. The ID column is ignored.
func ImportMenuFromExcel(menu store.MenuStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		f, err := header.Open()
		if err != nil {
			controllers.Fail(c, err, "Failed to open Excel file")
			return
		}
		defer f.Close()

		xlFile, err := xlsx.OpenReaderAt(f, header.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		ctx := c.Request.Context()
		created, skipped := 0, 0

		for i := 1; i < len(sheet.Rows); i++ {
			item, ok := menuItemFromRow(sheet.Rows[i])
			if !ok {
				skipped++
				continue
			}

			if _, err := menu.InsertMenuItem(ctx, &item); err != nil {
				_ = c.Error(err)
				skipped++
				continue
			}
			created++
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": created,
			"skipped_count": skipped,
		})
	}
}

func menuItemFromRow(row *xlsx.Row) (models.MenuItem, bool) {
	get := func(index int) string {
		if row == nil || index >= len(row.Cells) {
			return ""
		}
		return strings.TrimSpace(row.Cells[index].String())
	}

	name := get(1)
	price, err := strconv.ParseFloat(get(3), 64)
	if name == "" || err != nil || price < 0 {
		return models.MenuItem{}, false
	}

	return models.MenuItem{
		Name:     name,
		Category: get(2),
		Price:    price,
		Recipe:   get(4),
		Image:    get(5),
	}, true
}
