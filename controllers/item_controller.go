// controllers/item_controller.go
package controllers

import (
	"net/http"

	"supply-lending-tool/app"
	"supply-lending-tool/db"

	"github.com/gin-gonic/gin"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

// ListItems 物品一览，每行带现算的 available
func (ic *ItemController) ListItems(c *gin.Context) {
	rows, err := ic.Repo.ListItemsWithAvailability(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows})
}

// BulkCreate 批量新增物品（staff）
func (ic *ItemController) BulkCreate(c *gin.Context) {
	var in struct {
		Items []db.BulkItemInput `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"ok": false, "error": err.Error()})
		return
	}

	items, err := ic.Repo.BulkInsertItems(c.Request.Context(), in.Items)
	if err != nil {
		mapLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "items": items})
}

// BulkUpdate 批量改库存+备注（staff）
func (ic *ItemController) BulkUpdate(c *gin.Context) {
	var in struct {
		Updates []db.ItemUpdateInput `json:"updates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"ok": false, "error": err.Error()})
		return
	}

	if err := ic.Repo.BulkUpdateItems(c.Request.Context(), in.Updates); err != nil {
		mapLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// UpdateQty 库存增减（staff）
func (ic *ItemController) UpdateQty(c *gin.Context) {
	var in struct {
		ID    uint `json:"id" binding:"required"`
		Delta int  `json:"delta"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"ok": false, "error": err.Error()})
		return
	}

	newQty, err := ic.Repo.AdjustItemQty(c.Request.Context(), in.ID, in.Delta)
	if err != nil {
		mapLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "totalQty": newQty})
}

// UpdateNote 只改备注（staff）
func (ic *ItemController) UpdateNote(c *gin.Context) {
	var in struct {
		ID   uint   `json:"id" binding:"required"`
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"ok": false, "error": err.Error()})
		return
	}

	if err := ic.Repo.UpdateItemNote(c.Request.Context(), in.ID, in.Note); err != nil {
		mapLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
