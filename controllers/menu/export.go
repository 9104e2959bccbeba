package menuControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/junaidrashid-git/bistro-boss-api/controllers"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

var exportHeaders = []string{"ID", "Name", "Category", "Price", "Recipe", "Image"}

// GET /menu/export
func ExportMenuToExcel(menu store.MenuStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := menu.ListMenu(c.Request.Context())
		if err != nil {
			controllers.Fail(c, err, "Failed to fetch menu")
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Menu")
		if err != nil {
			controllers.Fail(c, err, "Failed to create Excel sheet")
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range exportHeaders {
			headerRow.AddCell().SetString(h)
		}

		for _, item := range items {
			row := sheet.AddRow()
			row.AddCell().SetString(item.ID)
			row.AddCell().SetString(item.Name)
			row.AddCell().SetString(item.Category)
			row.AddCell().SetFloat(item.Price)
			row.AddCell().SetString(item.Recipe)
			row.AddCell().SetString(item.Image)
		}

		c.Header("Content-Disposition", "attachment; filename=menu.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		c.Status(http.StatusOK)

		if err := file.Write(c.Writer); err != nil {
			// headers are already out; only the log can see this
			_ = c.Error(err)
		}
	}
}
