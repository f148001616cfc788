// controllers/lender_controller.go
package controllers

import (
	"encoding/csv"
	"io"
	"net/http"
	"strings"

	"supply-lending-tool/app"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

type LenderController struct{ *Srv }

func NewLenderController(s *Srv) *LenderController { return &LenderController{Srv: s} }

func (lc *LenderController) List(c *gin.Context) {
	ls, err := lc.Repo.ListLenders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"lenders": ls})
}

// Upload CSV 上传 → lenders 登记。文件是 Shift-JIS 编码，
// 先转码再取 name 列，入库由 Repo 一个事务完成。
func (lc *LenderController) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "CSV file required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"ok": false, "error": err.Error()})
		return
	}
	defer f.Close()

	names, err := readNameColumn(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"ok": false, "error": "CSV parse error: " + err.Error()})
		return
	}

	count, err := lc.Repo.ImportLenders(c.Request.Context(), names)
	if err != nil {
		mapLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "count": count})
}

// readNameColumn 解析 Shift-JIS CSV，按表头定位 name 列。
// 没有 name 列时返回空（与原系统一致：导入 0 条，不报错）。
func readNameColumn(r io.Reader) ([]string, error) {
	cr := csv.NewReader(transform.NewReader(r, japanese.ShiftJIS.NewDecoder()))
	cr.FieldsPerRecord = -1 // 行长不齐也照常读
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	nameCol := -1
	for i, h := range header {
		if strings.TrimSpace(h) == "name" {
			nameCol = i
			break
		}
	}
	if nameCol < 0 {
		return nil, nil
	}

	var names []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if nameCol < len(rec) {
			names = append(names, rec[nameCol])
		}
	}
	return names, nil
}
