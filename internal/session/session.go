// Package session seals customer authentication state into a
// tamper-evident, encrypted HTTP cookie. The server never trusts
// client-supplied session data without unsealing it first; anything
// that fails to unseal is simply a logged-out session.
package session

// Record is the authentication state carried inside the sealed cookie.
type Record struct {
	IsLoggedIn          bool   `json:"is_logged_in"`
	Email               string `json:"email,omitempty"`
	CustomerID          string `json:"customer_id,omitempty"`
	CustomerAccessToken string `json:"customer_access_token,omitempty"`
}

// Anonymous is the record used for absent, expired or tampered cookies.
func Anonymous() Record {
	return Record{IsLoggedIn: false}
}
