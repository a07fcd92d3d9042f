package infomaniakv2

import "encoding/json"

// listActiveStatus is the sentinel the v2 API uses for an active mailing list.
const listActiveStatus = 1

// The v2 public API nests the mailing-list collection one level deeper than
// v1: the envelope's data field is itself a paginated object.

type mailinglistsResponse struct {
	Result string `json:"result"`
	Data   struct {
		Data []mailinglistData `json:"data"`
	} `json:"data"`
}

type mailinglistData struct {
	ID     json.Number `json:"id"`
	Name   string      `json:"name"`
	Status int         `json:"status"`
}

type importContact struct {
	Email string `json:"email"`
}

type importContactsRequest struct {
	Contacts    []importContact `json:"contacts"`
	UpdateMetas bool            `json:"update_metas"`
}
