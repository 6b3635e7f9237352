package handler

import (
	"encoding/json"

	"github.com/AndreeJait/email-storm/account"
	"github.com/AndreeJait/email-storm/errow"
	"github.com/AndreeJait/email-storm/response"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SaveEmailConfigs replaces the stored sender list. An empty list clears it.
func (h *Handler) SaveEmailConfigs(c echo.Context) error {
	var accounts []account.Account
	if err := json.NewDecoder(c.Request().Body).Decode(&accounts); err != nil {
		return errors.WithStack(errow.ErrInvalidJSONArray.WithMessage(
			"Invalid email configurations format. Must be a JSON array of objects."))
	}
	if accounts == nil {
		accounts = []account.Account{}
	}
	if len(accounts) > 0 {
		if err := account.ValidateAll(accounts); err != nil {
			return err
		}
	}

	if err := h.store.Save(c.Request().Context(), accounts); err != nil {
		return errors.Wrap(errow.ErrStoreUnavailable.WithMessage("Failed to save email configurations: "+err.Error()), "save accounts")
	}
	h.logger(c).WithField("count", len(accounts)).Info("email configurations saved")
	return response.SuccessOK(c, response.Data{"count": len(accounts)}, "Email configurations saved successfully!")
}

func (h *Handler) LoadEmailConfigs(c echo.Context) error {
	accounts, err := h.store.Load(c.Request().Context())
	if err != nil {
		if errors.Is(err, errow.ErrConfigFileCorrupt) {
			return err
		}
		return errors.Wrap(errow.ErrStoreUnavailable.WithMessage("Failed to load email configurations: "+err.Error()), "load accounts")
	}
	h.logger(c).WithField("count", len(accounts)).Info("email configurations loaded")
	return response.SuccessOK(c, accounts)
}
