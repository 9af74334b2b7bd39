package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/jhillyerd/enmime"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"invoiceparts/internal"
	"invoiceparts/internal/config"
	"invoiceparts/internal/connectors"
)

type Connector struct {
	service *gmail.Service
	query   string
}

func NewConnector(ctx context.Context, cfg config.Config) (*Connector, error) {
	if err := cfg.Require("GMAIL_CLIENT_ID", cfg.GmailClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("GMAIL_CLIENT_SECRET", cfg.GmailClientSecret); err != nil {
		return nil, err
	}
	if err := cfg.Require("GMAIL_REFRESH_TOKEN", cfg.GmailRefreshToken); err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.GmailRedirectURI,
		Scopes:       []string{gmail.GmailReadonlyScope},
	}

	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.GmailRefreshToken})
	httpClient := &http.Client{Transport: &connectors.RetryTransport{
		Base:        &oauth2.Transport{Source: tokenSource},
		Limiter:     connectors.NewRateLimiter(cfg.GmailRateLimitRPS),
		MaxAttempts: 5,
		BaseBackoff: 250 * time.Millisecond,
	}}
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	return &Connector{service: svc, query: cfg.GmailQuery}, nil
}

// FetchInbox lists up to max messages under label matching the configured
// search query and downloads each in raw RFC 822 form.
func (c *Connector) FetchInbox(ctx context.Context, label string, max int) ([]internal.FetchedMailMessage, error) {
	listCall := c.service.Users.Messages.List("me").LabelIds(label).MaxResults(int64(max)).Context(ctx)
	if c.query != "" {
		listCall = listCall.Q(c.query)
	}
	listResp, err := listCall.Do()
	if err != nil {
		return nil, err
	}

	out := make([]internal.FetchedMailMessage, 0, len(listResp.Messages))
	for _, msgRef := range listResp.Messages {
		if msgRef.Id == "" {
			continue
		}

		rawResp, err := c.service.Users.Messages.Get("me", msgRef.Id).Format("raw").Context(ctx).Do()
		if err != nil {
			return nil, err
		}
		if rawResp.Raw == "" {
			continue
		}

		rawBytes, err := decodeBase64URL(rawResp.Raw)
		if err != nil {
			return nil, err
		}

		out = append(out, messageFromRaw(msgRef.Id, rawBytes, rawResp.InternalDate))
	}

	return out, nil
}

// messageFromRaw fills the envelope fields from the message headers. The
// Gmail id and internal date stand in for missing Message-ID and Date.
func messageFromRaw(id string, raw []byte, internalDateMs int64) internal.FetchedMailMessage {
	msg := internal.FetchedMailMessage{
		Provider:   "gmail",
		MessageID:  id,
		ReceivedAt: time.UnixMilli(internalDateMs).UTC().Format(time.RFC3339),
		Raw:        raw,
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return msg
	}
	if v := env.GetHeader("Message-ID"); v != "" {
		msg.MessageID = v
	}
	msg.Subject = env.GetHeader("Subject")
	msg.From = env.GetHeader("From")
	if t, err := mail.ParseDate(env.GetHeader("Date")); err == nil {
		msg.ReceivedAt = t.UTC().Format(time.RFC3339)
	}
	return msg
}

func decodeBase64URL(input string) ([]byte, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(input)
	if err == nil {
		return decoded, nil
	}
	decoded, err = base64.URLEncoding.DecodeString(input)
	if err == nil {
		return decoded, nil
	}
	return nil, fmt.Errorf("decode gmail raw payload: %w", err)
}
