package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/promptsheet-backend/internal/http/response"
	"github.com/yungbote/promptsheet-backend/internal/services"
	"github.com/yungbote/promptsheet-backend/internal/sheets"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SheetHandler struct {
	sheets services.SheetService
}

func NewSheetHandler(sheetService services.SheetService) *SheetHandler {
	return &SheetHandler{sheets: sheetService}
}

// POST /api/sheets/validate
//
// Accepts a multipart "file" upload or a JSON sheet set.
func (h *SheetHandler) Validate(c *gin.Context) {
	ctx := c.Request.Context()
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "missing_file", err)
			return
		}
		f, err := fh.Open()
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
			return
		}
		defer f.Close()
		rep, err := h.sheets.ValidateWorkbook(ctx, f)
		if err != nil {
			response.RespondServiceError(c, err, "validate_failed")
			return
		}
		response.RespondOK(c, rep)
		return
	}

	var set sheets.SheetSet
	if err := c.ShouldBindJSON(&set); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	response.RespondOK(c, h.sheets.ValidateSet(ctx, set))
}

// GET /api/sheets/template
func (h *SheetHandler) Template(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.sheets.WriteExample(c.Request.Context(), &buf); err != nil {
		response.RespondServiceError(c, err, "template_failed")
		return
	}
	attachment(c, "promptsheet_template.xlsx", buf.Bytes())
}

func attachment(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, body)
}
