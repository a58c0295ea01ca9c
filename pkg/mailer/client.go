package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/paraty-go/backend/internal/config"
	"github.com/paraty-go/backend/internal/helper"
)

const apiUser = "api"

// Client talks to the transactional mail HTTP API.
type Client struct {
	apiBase string
	apiKey  string
	domain  string
	client  *http.Client
}

func New(cfg *config.Mail) *Client {
	apiBase := helper.SetDefaultStringIfEmpty(cfg.APIBase, "https://api.mailgun.net/v3", "apiBase", "mailer")

	return &Client{
		apiBase: strings.TrimRight(apiBase, "/"),
		apiKey:  cfg.APIKey,
		domain:  cfg.Domain,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Domains lists the sending domains attached to the account. An API error
// usually means the configured key was rejected.
func (c *Client) Domains() ([]Domain, error) {
	req, err := http.NewRequest(http.MethodGet, c.apiBase+"/domains", nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(apiUser, c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reach mail API")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mail API rejected the domain listing: %s", readAPIError(res))
	}

	var payload struct {
		Items []Domain `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "failed to parse domain listing")
	}

	log.WithFields(log.Fields{"kind": "mailer", "domains": len(payload.Items)}).Debug("listed sending domains")
	return payload.Items, nil
}

// Send submits msg to the API and returns the message id assigned by it.
func (c *Client) Send(msg *Message) (string, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	fields := map[string]string{
		"from":    msg.From,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	for field, value := range fields {
		if err := form.WriteField(field, value); err != nil {
			return "", errors.Wrapf(err, "failed to encode field %q", field)
		}
	}
	for _, to := range msg.To {
		if err := form.WriteField("to", to); err != nil {
			return "", errors.Wrap(err, "failed to encode recipient")
		}
	}
	for _, att := range msg.Attachments {
		part, err := form.CreateFormFile("attachment", att.Filename)
		if err != nil {
			return "", errors.Wrapf(err, "failed to encode attachment %q", att.Filename)
		}
		if _, err := part.Write(att.Content); err != nil {
			return "", errors.Wrapf(err, "failed to encode attachment %q", att.Filename)
		}
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/messages", c.apiBase, c.domain)
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(apiUser, c.apiKey)
	req.Header.Set("Content-Type", form.FormDataContentType())

	res, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to reach mail API")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("mail API rejected the message: %s", readAPIError(res))
	}

	var payload struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(err, "failed to parse send response")
	}

	log.WithFields(log.Fields{"kind": "mailer", "id": payload.ID, "recipients": len(msg.To)}).Info("notification accepted by mail API")
	return payload.ID, nil
}

func readAPIError(res *http.Response) string {
	out, err := io.ReadAll(io.LimitReader(res.Body, 4096))
	if err != nil || len(bytes.TrimSpace(out)) == 0 {
		return res.Status
	}
	return fmt.Sprintf("%s: %s", res.Status, strings.TrimSpace(string(out)))
}
