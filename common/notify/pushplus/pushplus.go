package pushplus

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const DefaultAPI = "https://www.pushplus.plus/send/"

type PushPlus struct {
	Token string
	// API overrides DefaultAPI.
	API string
	// HTTPClient overrides the transport.
	HTTPClient *http.Client
}

type pushPlusResp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data string `json:"data"`
}

func (p *PushPlus) Webhook(title string, content string) error {
	api := p.API
	if api == "" {
		api = DefaultAPI
	}
	cli := resty.New()
	if p.HTTPClient != nil {
		cli = resty.NewWithClient(p.HTTPClient)
	}

	rtn := &pushPlusResp{}
	resp, err := cli.SetRetryCount(3).R().SetResult(rtn).SetBody(map[string]string{
		"token":    p.Token,
		"title":    title,
		"content":  content,
		"template": "txt",
	}).ForceContentType("application/json").Post(api)
	if err != nil {
		return err
	}

	switch rtn.Code {
	case 0:
		return fmt.Errorf("[PushPlus] %s", resp.String())
	case 200:
		return nil
	default:
		return fmt.Errorf("[PushPlus] %s", rtn.Msg)
	}
}
