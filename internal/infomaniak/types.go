package infomaniak

import "encoding/json"

// The v1 API wraps collections in a result envelope and returns numeric ids,
// so ids are decoded as json.Number and surfaced as strings.

type groupsResponse struct {
	Result string      `json:"result"`
	Data   []groupData `json:"data"`
	Total  int         `json:"total"`
}

type groupData struct {
	ID        json.Number `json:"id"`
	Name      string      `json:"name"`
	Status    int         `json:"status"`
	UpdatedAt int64       `json:"updated_at"`
}

type createSubscriberRequest struct {
	Email string `json:"email"`
}

type createSubscriberResponse struct {
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

type assignSubscribersRequest struct {
	SubscriberIDs []string `json:"subscriber_ids"`
}
