package model

import "time"

// Device is a paired API client (popup UI, content-script host, another
// machine syncing settings).
type Device struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	PairedAt time.Time `json:"pairedAt"`
}
