package license

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultAppName       = "Email Storm"
	DefaultActivationURL = "https://api-keygen.obzentechnolabs.com/api/sadmin/check-activation"
	DefaultTimeout       = 10 * time.Second
)

const (
	StatusActive         = "active"
	StatusInactive       = "inactive"
	StatusDeviceNotFound = "device not found"
	StatusError          = "error"
)

const (
	msgRegister = "Please register the device on the website."
	msgActivate = "Please activate the device on the website."
)

// Status is the activation state reported to the desktop client.
type Status struct {
	DeviceActivation bool    `json:"deviceActivation"`
	ActivationStatus string  `json:"activationStatus"`
	Message          string  `json:"message"`
	Success          bool    `json:"success"`
	SystemID         *string `json:"systemId"`
	LicenseToken     string  `json:"licenseToken,omitempty"`
}

func errorStatus(systemID *string, message string) Status {
	return Status{
		ActivationStatus: StatusError,
		Message:          message,
		SystemID:         systemID,
	}
}

// Checker asks the activation server about a system id.
type Checker interface {
	Check(ctx context.Context, systemID string) Status
}

// Client talks to the remote activation API.
type Client struct {
	url     string
	appName string
	timeout time.Duration
	http    *http.Client
}

func NewClient(url, appName string, timeout time.Duration, httpClient *http.Client) *Client {
	if url == "" {
		url = DefaultActivationURL
	}
	if appName == "" {
		appName = DefaultAppName
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, appName: appName, timeout: timeout, http: httpClient}
}

type checkRequest struct {
	SystemID string `json:"systemId"`
	AppName  string `json:"appName"`
}

type checkResponse struct {
	ActivationStatus string `json:"activationStatus"`
	DeviceActivation bool   `json:"deviceActivation"`
}

// Check never fails: transport and decoding problems come back as a Status
// with ActivationStatus "error".
func (c *Client) Check(ctx context.Context, systemID string) Status {
	id := systemID
	data, err := c.post(ctx, checkRequest{SystemID: systemID, AppName: c.appName})
	if err != nil {
		return errorStatus(&id, "Could not connect to activation server: "+err.Error())
	}

	status := strings.ToLower(data.ActivationStatus)
	var message string
	switch status {
	case StatusActive:
		message = ""
	case StatusInactive:
		message = msgActivate
	default:
		message = msgRegister
	}

	return Status{
		DeviceActivation: data.DeviceActivation,
		ActivationStatus: status,
		Message:          message,
		Success:          status == StatusActive,
		SystemID:         &id,
	}
}

func (c *Client) post(ctx context.Context, payload checkRequest) (*checkResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errors.Errorf("%d %s for url: %s", resp.StatusCode, http.StatusText(resp.StatusCode), c.url)
	}

	var out checkResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "decode activation response")
	}
	return &out, nil
}
