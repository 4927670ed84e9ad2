// Package reconcile turns API responses into mutation outcomes and keeps
// the optimistic record ledger behind the editable DNS table.
package reconcile

import (
	"errors"
	"net/http"

	"domain0/d0ctl/internal/api"
	dnsdomain "domain0/d0ctl/internal/dns/domain"
)

// DefaultPendingMessage is shown when a deferred response carries no text.
const DefaultPendingMessage = "change submitted for approval"

var errNoResponse = errors.New("no response from server")

// Classify interprets the response of a record create or update call.
//
// Envelope status 200 or 201 is applied and its data is the authoritative
// record. 208 is pending approval and its data is a human-readable message.
// Everything else, including transport failures, is rejected.
func Classify(resp *api.Response, err error) dnsdomain.Outcome {
	if err != nil {
		return dnsdomain.Rejected(err)
	}
	if resp == nil {
		return dnsdomain.Rejected(errNoResponse)
	}

	switch resp.Status {
	case http.StatusOK, http.StatusCreated:
		var rec dnsdomain.Record
		if err := resp.Decode(&rec); err != nil {
			return dnsdomain.Rejected(err)
		}
		return dnsdomain.Applied(&rec)
	case api.StatusPendingApproval:
		return dnsdomain.PendingApproval(pendingMessage(resp))
	}
	return dnsdomain.Rejected(resp.Err())
}

// ClassifyAck interprets a call whose success carries no record, such as a
// delete or an access grant. Any 2xx status other than 208 is applied.
func ClassifyAck(resp *api.Response, err error) dnsdomain.Outcome {
	if err != nil {
		return dnsdomain.Rejected(err)
	}
	if resp == nil {
		return dnsdomain.Rejected(errNoResponse)
	}

	switch {
	case resp.Deferred():
		return dnsdomain.PendingApproval(pendingMessage(resp))
	case resp.Succeeded():
		return dnsdomain.Applied(nil)
	}
	return dnsdomain.Rejected(resp.Err())
}

func pendingMessage(resp *api.Response) string {
	if msg := resp.Text(); msg != "" {
		return msg
	}
	return DefaultPendingMessage
}
