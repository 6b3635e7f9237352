package handler

import (
	"context"

	"github.com/AndreeJait/email-storm/account"
	"github.com/AndreeJait/email-storm/campaign"
	"github.com/AndreeJait/email-storm/license"
	"github.com/AndreeJait/email-storm/loggerw"
	"github.com/labstack/echo/v4"
)

// Dispatcher runs one campaign to completion.
type Dispatcher interface {
	Dispatch(ctx context.Context, req campaign.Request) campaign.Result
}

type Handler struct {
	log        loggerw.Logger
	store      account.Store
	dispatcher Dispatcher
	license    *license.Service
	shutdown   func()

	// campaignCtx outlives single requests so a closed browser tab does not
	// abort a running campaign. Cancelled on process shutdown.
	campaignCtx context.Context
	tempDir     string
}

type Deps struct {
	Log        loggerw.Logger
	Store      account.Store
	Dispatcher Dispatcher
	License    *license.Service
	// Shutdown is called after /shutdown has answered.
	Shutdown func()
	// CampaignContext defaults to context.Background.
	CampaignContext context.Context
	// TempDir is where attachments are staged. Empty means os.TempDir.
	TempDir string
}

func New(deps Deps) *Handler {
	h := &Handler{
		log:         deps.Log,
		store:       deps.Store,
		dispatcher:  deps.Dispatcher,
		license:     deps.License,
		shutdown:    deps.Shutdown,
		campaignCtx: deps.CampaignContext,
		tempDir:     deps.TempDir,
	}
	if h.log == nil {
		h.log = loggerw.Discard()
	}
	if h.shutdown == nil {
		h.shutdown = func() {}
	}
	if h.campaignCtx == nil {
		h.campaignCtx = context.Background()
	}
	return h
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/system-info", h.SystemInfo)
	e.GET("/check-activation", h.CheckActivation)
	e.POST("/preview-csv", h.PreviewCSV)
	e.POST("/save-email-configs", h.SaveEmailConfigs)
	e.GET("/load-email-configs", h.LoadEmailConfigs)
	e.POST("/send-emails", h.SendEmails, RequireLicense(h.license))
	e.POST("/shutdown", h.Shutdown)
}

func (h *Handler) logger(c echo.Context) loggerw.Logger {
	return h.log.WithField("request_id", loggerw.GetRequestID(c.Request().Context()))
}
