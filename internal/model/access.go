package model

// AccessResult is the answer to a "does this phone/user have bot access"
// query. Reason carries the specific denial cause when Granted is false.
type AccessResult struct {
	Granted bool   `json:"granted"`
	Reason  string `json:"reason,omitempty"`
	UserID  int64  `json:"user_id,omitempty"`
}
