// Package backend implements the HTTP client for the processing backend:
// device notifications (missing files, deleted forms) and per-file processing
// notifications. Both endpoints are plain GETs carrying query parameters and
// the device identity.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/openfield/fieldsync/internal/common"
)

const (
	deviceNotificationPath = "/devicenotification"
	processorPath          = "/processor"

	// ActionSubmit announces a record archive ready for processing.
	ActionSubmit = "submit"
	// ActionImage re-announces a media file after a failed attempt.
	ActionImage = "image"

	// StatusUnknown is returned when no HTTP status could be obtained.
	StatusUnknown = -1
)

// DeviceParams identifies this device to the backend. All values travel as
// query parameters on every request.
type DeviceParams struct {
	PhoneNumber string
	IMEI        string
	DeviceID    string
	OSVersion   string
}

func (p DeviceParams) apply(q url.Values) {
	q.Set("phoneNumber", p.PhoneNumber)
	q.Set("imei", p.IMEI)
	q.Set("deviceId", p.DeviceID)
	q.Set("ver", p.OSVersion)
}

// DeviceNotification is the backend's reply to a device-notification request.
// All arrays are optional.
type DeviceNotification struct {
	// MissingFiles are files the backend has no record of receiving.
	MissingFiles []string `json:"missingFiles"`
	// MissingUnknown are files the backend cannot interpret.
	MissingUnknown []string `json:"missingUnknown"`
	// DeletedForms are ids of forms removed server-side.
	DeletedForms []string `json:"deletedForms"`
}

// Client talks to the processing backend over HTTP.
type Client struct {
	baseURL string
	device  DeviceParams
	http    *http.Client
}

// NewClient returns a Client for the given base URL.
func NewClient(baseURL string, device DeviceParams) *Client {
	return &Client{
		baseURL: baseURL,
		device:  device,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// DeviceNotifications sends the locally known form ids and returns the
// backend's view of missing files and deleted forms.
func (c *Client) DeviceNotifications(ctx context.Context, formIDs []string) (*DeviceNotification, error) {
	q := url.Values{}
	c.device.apply(q)
	for _, id := range formIDs {
		q.Add("formId", id)
	}

	body, _, err := c.get(ctx, deviceNotificationPath, q)
	if err != nil {
		return nil, err
	}

	var dn DeviceNotification
	if err := json.Unmarshal(body, &dn); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorBadServerReply, err)
	}
	return &dn, nil
}

// NotifyProcessing tells the backend a file has landed in object storage and
// is ready for processing. The result is interpreted purely by HTTP status
// code; transport failures yield StatusUnknown alongside the error.
func (c *Client) NotifyProcessing(ctx context.Context, action, formID, fileName string) (int, error) {
	q := url.Values{}
	q.Set("action", action)
	q.Set("formID", formID)
	q.Set("fileName", fileName)
	c.device.apply(q)

	_, status, err := c.get(ctx, processorPath, q)
	if err != nil {
		if status == 0 {
			return StatusUnknown, err
		}
		return status, err
	}
	return status, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, int, error) {
	u := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return body, resp.StatusCode, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return body, resp.StatusCode, nil
}
