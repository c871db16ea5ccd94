package model

import "encoding/json"

// User identifies a card holder. Users live in the records API, only the
// current kiosk session holds one locally.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	RFID   string `json:"rfid"`
	Record Record `json:"-"`
}

// MarshalJSON echoes the remote row the user was read from, if any.
func (u *User) MarshalJSON() ([]byte, error) {
	if u.Record != nil {
		return json.Marshal(map[string]interface{}(u.Record))
	}
	type plain User
	return json.Marshal((*plain)(u))
}
