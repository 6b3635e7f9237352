package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreeJait/email-storm/account"
	"github.com/AndreeJait/email-storm/campaign"
	"github.com/AndreeJait/email-storm/errow"
	"github.com/AndreeJait/email-storm/response"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type sendForm struct {
	Subject      string
	Message      string
	Variables    string
	EmailConfigs string
	HTMLContent  string
	BCCMode      string
}

func (f sendForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Subject, validation.Required),
		validation.Field(&f.Message, validation.Required),
		validation.Field(&f.Variables, validation.Required),
		validation.Field(&f.EmailConfigs, validation.Required),
		validation.Field(&f.HTMLContent, validation.By(isFormBool)),
		validation.Field(&f.BCCMode, validation.By(isFormBool)),
	)
}

type sendResponse struct {
	Status           string             `json:"status"`
	Detail           string             `json:"detail"`
	SuccessfulEmails []string           `json:"successful_emails"`
	FailedEmails     []string           `json:"failed_emails"`
	SuccessfulCount  int                `json:"successful_count"`
	FailedCount      int                `json:"failed_count"`
	Failures         []campaign.Failure `json:"failures"`
}

func (h *Handler) SendEmails(c echo.Context) error {
	form := sendForm{
		Subject:      c.FormValue("subject"),
		Message:      c.FormValue("message"),
		Variables:    c.FormValue("variables"),
		EmailConfigs: c.FormValue("email_configs"),
		HTMLContent:  c.FormValue("html_content"),
		BCCMode:      c.FormValue("bcc_mode"),
	}
	if err := form.Validate(); err != nil {
		return err
	}

	var variables []string
	if err := json.Unmarshal([]byte(form.Variables), &variables); err != nil {
		return errors.WithStack(errow.ErrInvalidJSONArray.WithMessage("Invalid variables format. Must be a JSON array."))
	}

	var accounts []account.Account
	if err := json.Unmarshal([]byte(form.EmailConfigs), &accounts); err != nil {
		return errors.WithStack(errow.ErrInvalidJSONArray.WithMessage(
			"Invalid email configurations format. Must be a JSON array of objects."))
	}
	if err := account.ValidateAll(accounts); err != nil {
		return err
	}

	table, err := readContacts(c, "csv_file")
	if err != nil {
		return err
	}
	if missing := table.MissingColumns(variables); len(missing) > 0 {
		return errors.WithStack(errow.ErrVariablesNotInCSV.WithMessage(
			"Variables not found in CSV: " + strings.Join(missing, ", ")))
	}
	if !table.HasColumn(campaign.EmailColumn) {
		return errors.WithStack(errow.ErrMissingEmailColumn.WithMessage(
			"CSV must contain an 'email' column for sending emails."))
	}

	workDir, err := os.MkdirTemp(h.tempDir, "email-storm-"+uuid.NewString()+"-")
	if err != nil {
		return errors.Wrap(errow.ErrInternalServer, err.Error())
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			h.logger(c).Errorf("error cleaning up temp directory %s: %v", workDir, err)
		}
	}()

	attachment, err := h.stageAttachment(c, workDir)
	if err != nil {
		return err
	}

	req := campaign.Request{
		Contacts:        table.Records(),
		SubjectTemplate: form.Subject,
		BodyTemplate:    form.Message,
		Variables:       variables,
		Accounts:        accounts,
		Options: campaign.Options{
			HTML:           formBool(form.HTMLContent),
			BCC:            formBool(form.BCCMode),
			AttachmentPath: attachment,
		},
	}
	result := h.dispatcher.Dispatch(h.campaignCtx, req)

	h.logger(c).WithFields(map[string]interface{}{
		"successful": result.SuccessCount(),
		"failed":     result.FailedCount(),
	}).Info("email campaign completed")

	return response.SuccessOK(c, sendResponse{
		Status: "success",
		Detail: fmt.Sprintf("Email campaign initiated. %d emails successfully sent, %d failed.",
			result.SuccessCount(), result.FailedCount()),
		SuccessfulEmails: result.Successful,
		FailedEmails:     result.FailedStrings(),
		SuccessfulCount:  result.SuccessCount(),
		FailedCount:      result.FailedCount(),
		Failures:         result.Failed,
	})
}

// stageAttachment copies the optional media_file into dir and returns its
// path, or "" when none was uploaded.
func (h *Handler) stageAttachment(c echo.Context, dir string) (string, error) {
	fh, err := c.FormFile("media_file")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(errow.ErrBadRequest.WithMessage(err.Error()), "read media_file")
	}

	name := filepath.Base(fh.Filename)
	switch name {
	case "", ".", "..", string(filepath.Separator):
		name = "attachment"
	}
	path := filepath.Join(dir, name)
	if err = saveUpload(fh, path); err != nil {
		return "", errors.Wrap(errow.ErrInternalServer, err.Error())
	}
	return path, nil
}

func saveUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return errors.WithStack(err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(dst.Close())
}

func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func isFormBool(value interface{}) error {
	switch strings.ToLower(strings.TrimSpace(value.(string))) {
	case "", "0", "1", "true", "false", "yes", "no", "on", "off":
		return nil
	}
	return errors.New("must be a boolean")
}
