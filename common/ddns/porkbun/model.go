package porkbun

import (
	"encoding/json"
	"strconv"

	"github.com/Septrum101/porkbunDDNS/common/ddns"
)

const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// Response is the common shape of every Porkbun API answer.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Records []Record    `json:"records,omitempty"`
	ID      json.Number `json:"id,omitempty"`
	YourIP  string      `json:"yourIp,omitempty"`
}

type Record struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     string `json:"ttl"`
	Prio    string `json:"prio"`
	Notes   string `json:"notes"`
}

func (r *Response) OK() bool {
	return r.Status == StatusSuccess
}

// Reply converts the response for the reconciliation engine.
func (r *Response) Reply() *ddns.Reply {
	reply := &ddns.Reply{
		OK:      r.OK(),
		Message: r.Message,
	}
	for i := range r.Records {
		ttl, _ := strconv.Atoi(r.Records[i].TTL)
		reply.Records = append(reply.Records, ddns.Record{
			ID:      r.Records[i].ID,
			Name:    r.Records[i].Name,
			Type:    r.Records[i].Type,
			Content: r.Records[i].Content,
			TTL:     ttl,
		})
	}
	return reply
}
