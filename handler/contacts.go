package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/AndreeJait/email-storm/contact"
	"github.com/AndreeJait/email-storm/errow"
	"github.com/AndreeJait/email-storm/response"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type previewResponse struct {
	Status    string              `json:"status"`
	Columns   []string            `json:"columns"`
	Preview   []map[string]string `json:"preview"`
	TotalRows int                 `json:"total_rows"`
}

func (h *Handler) PreviewCSV(c echo.Context) error {
	table, err := readContacts(c, "csv_file")
	if err != nil {
		return err
	}
	return response.SuccessOK(c, previewResponse{
		Status:    "success",
		Columns:   table.Columns,
		Preview:   table.Preview(contact.DefaultPreviewRows),
		TotalRows: table.Len(),
	})
}

// readContacts parses the uploaded CSV in form field.
func readContacts(c echo.Context, field string) (*contact.Table, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errors.WithStack(errow.ErrMissingUploadFile.WithMessage(field + " is required"))
		}
		return nil, errors.Wrap(errow.ErrBadRequest.WithMessage(err.Error()), "read form file")
	}
	if !contact.IsCSVName(fh.Filename) {
		return nil, errors.WithStack(errow.ErrNotCSVFile.WithMessage("Uploaded file is not a CSV."))
	}
	return parseUpload(fh)
}

func parseUpload(fh *multipart.FileHeader) (*contact.Table, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(errow.ErrCSVParseFailed.WithMessage("Failed to parse CSV: "+err.Error()), "open upload")
	}
	defer f.Close()
	return contact.Read(f)
}
