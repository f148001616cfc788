// controllers/loan_controller.go
package controllers

import (
	"net/http"

	"supply-lending-tool/app"
	"supply-lending-tool/db"

	"github.com/gin-gonic/gin"
)

type LoanController struct{ *Srv }

func NewLoanController(s *Srv) *LoanController { return &LoanController{Srv: s} }

// Create 借出。经手人取会话身份，不信任请求体。
func (lc *LoanController) Create(c *gin.Context) {
	var in struct {
		ItemID   uint   `json:"item_id" binding:"required"`
		LenderID uint   `json:"lender_id" binding:"required"`
		Qty      int    `json:"qty" binding:"required"`
		Room     string `json:"room"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	userID, _ := identity(c)

	loan, err := lc.Repo.CreateLoan(c.Request.Context(), db.CreateLoanInput{
		ItemID:   in.ItemID,
		LenderID: in.LenderID,
		Qty:      in.Qty,
		Room:     in.Room,
		StaffID:  userID,
	})
	if err != nil {
		mapLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"ok": true, "loan": loan})
}

// Unreturned 未归还一览
func (lc *LoanController) Unreturned(c *gin.Context) {
	rows, err := lc.Repo.ListUnreturnedLoans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"loans": rows})
}

// Return 归还一件
func (lc *LoanController) Return(c *gin.Context) {
	var in struct {
		ID uint `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"ok": false, "error": err.Error()})
		return
	}

	loan, err := lc.Repo.ReturnLoan(c.Request.Context(), in.ID)
	if err != nil {
		mapLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "loan": loan})
}

// BulkReturn 批量归还（全部成功或全部回滚）
func (lc *LoanController) BulkReturn(c *gin.Context) {
	var in struct {
		IDs []uint `json:"ids"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"ok": false, "error": err.Error()})
		return
	}

	n, err := lc.Repo.BulkReturnLoans(c.Request.Context(), in.IDs)
	if err != nil {
		mapLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "returned": n})
}

// History 履历检索（staff）
func (lc *LoanController) History(c *gin.Context) {
	q := c.Query("q")
	onlyOpen := c.Query("onlyNot") == "1"

	rows, err := lc.Repo.SearchLoanHistory(c.Request.Context(), q, onlyOpen)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}
