package notify_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Septrum101/porkbunDDNS/common/notify"
	"github.com/Septrum101/porkbunDDNS/common/notify/pushplus"
	"github.com/Septrum101/porkbunDDNS/common/notify/telegram"
)

func mockClient(t *testing.T) *http.Client {
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)
	return hc
}

func TestTelegram_Webhook(t *testing.T) {
	hc := mockClient(t)

	httpmock.RegisterResponder(http.MethodPost, "https://bot.test/botTOKEN/getMe",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
			"ok":     true,
			"result": map[string]any{"id": 1, "is_bot": true, "first_name": "ddns", "username": "ddns_bot"},
		}))

	var form url.Values
	httpmock.RegisterResponder(http.MethodPost, "https://bot.test/botTOKEN/sendMessage",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, req.ParseForm())
			form = req.PostForm
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"ok":     true,
				"result": map[string]any{"message_id": 1, "date": 0, "chat": map[string]any{"id": 123, "type": "private"}},
			})
		})

	var n notify.Notify = &telegram.Telegram{ApiHost: "bot.test", ChatID: "123", Token: "TOKEN", HTTPClient: hc}

	require.NoError(t, n.Webhook("home", "host.example.com -> 203.0.113.5"))
	require.NoError(t, n.Webhook("home", "again"))

	assert.Equal(t, "123", form.Get("chat_id"))
	assert.Equal(t, "#PorkbunDDNS\nhome\nagain", form.Get("text"))
	assert.Equal(t, 1, httpmock.GetCallCountInfo()["POST https://bot.test/botTOKEN/getMe"])
}

func TestTelegram_InvalidChatID(t *testing.T) {
	tg := &telegram.Telegram{ChatID: "@channel", Token: "TOKEN"}
	assert.Error(t, tg.Webhook("home", "content"))
}

func TestTelegram_Unauthorized(t *testing.T) {
	hc := mockClient(t)
	httpmock.RegisterResponder(http.MethodPost, "https://bot.test/botBAD/getMe",
		httpmock.NewJsonResponderOrPanic(http.StatusUnauthorized, map[string]any{
			"ok": false, "error_code": 401, "description": "Unauthorized",
		}))

	tg := &telegram.Telegram{ApiHost: "bot.test", ChatID: "1", Token: "BAD", HTTPClient: hc}

	err := tg.Webhook("home", "content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestTelegram_ReconnectsAfterFailure(t *testing.T) {
	hc := mockClient(t)

	getMe := 0
	httpmock.RegisterResponder(http.MethodPost, "https://bot.test/botTOKEN/getMe",
		func(req *http.Request) (*http.Response, error) {
			getMe++
			if getMe == 1 {
				return httpmock.NewJsonResponse(http.StatusBadGateway, map[string]any{
					"ok": false, "error_code": 502, "description": "Bad Gateway",
				})
			}
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"ok":     true,
				"result": map[string]any{"id": 1, "is_bot": true, "first_name": "ddns", "username": "ddns_bot"},
			})
		})
	httpmock.RegisterResponder(http.MethodPost, "https://bot.test/botTOKEN/sendMessage",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
			"ok":     true,
			"result": map[string]any{"message_id": 1, "date": 0, "chat": map[string]any{"id": 123, "type": "private"}},
		}))

	tg := &telegram.Telegram{ApiHost: "bot.test", ChatID: "123", Token: "TOKEN", HTTPClient: hc}

	require.Error(t, tg.Webhook("home", "first"))
	require.NoError(t, tg.Webhook("home", "second"))
	require.NoError(t, tg.Webhook("home", "third"))

	assert.Equal(t, 2, getMe)
	assert.Equal(t, 2, httpmock.GetCallCountInfo()["POST https://bot.test/botTOKEN/sendMessage"])
}

func TestPushPlus_Webhook(t *testing.T) {
	hc := mockClient(t)

	httpmock.RegisterResponder(http.MethodPost, "https://push.test/send/",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"code": 200, "msg": "ok", "data": "id"}))

	var n notify.Notify = &pushplus.PushPlus{Token: "TOKEN", API: "https://push.test/send/", HTTPClient: hc}
	assert.NoError(t, n.Webhook("home", "host.example.com -> 203.0.113.5"))
}

func TestPushPlus_Rejected(t *testing.T) {
	hc := mockClient(t)

	httpmock.RegisterResponder(http.MethodPost, "https://push.test/send/",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"code": 903, "msg": "invalid token"}))

	pp := &pushplus.PushPlus{Token: "TOKEN", API: "https://push.test/send/", HTTPClient: hc}

	err := pp.Webhook("home", "content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
	// API level errors are not retried
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
