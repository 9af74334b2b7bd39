package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawMessage = "Message-ID: <inv-42@example.com>\r\n" +
	"From: Billing <billing@example.com>\r\n" +
	"Subject: Invoice 42\r\n" +
	"Date: Tue, 14 Mar 2023 10:00:00 +0100\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"12345ABCDE Brake pad\r\n"

func TestMessageFromRaw(t *testing.T) {
	msg := messageFromRaw("abc", []byte(rawMessage), 0)

	assert.Equal(t, "gmail", msg.Provider)
	assert.Equal(t, "<inv-42@example.com>", msg.MessageID)
	assert.Equal(t, "Invoice 42", msg.Subject)
	assert.Contains(t, msg.From, "billing@example.com")
	assert.Equal(t, "2023-03-14T09:00:00Z", msg.ReceivedAt)
}

func TestMessageFromRawFallsBackToGmailFields(t *testing.T) {
	raw := "Content-Type: text/plain\r\n\r\nbody\r\n"
	msg := messageFromRaw("abc", []byte(raw), 1_700_000_000_000)

	assert.Equal(t, "abc", msg.MessageID)
	assert.Equal(t, "2023-11-14T22:13:20Z", msg.ReceivedAt)
}

func TestDecodeBase64URL(t *testing.T) {
	payload := []byte("raw?>message")

	got, err := decodeBase64URL(base64.RawURLEncoding.EncodeToString(payload))
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	got, err = decodeBase64URL(base64.URLEncoding.EncodeToString(payload))
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = decodeBase64URL("***")
	assert.Error(t, err)
}
