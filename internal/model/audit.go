package model

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// AuditEntry describes one kiosk action. Entries are logged and, when a
// message broker is configured, published.
type AuditEntry struct {
	Group        string        `json:"group"`
	Action       string        `json:"action"`
	SessionID    string        `json:"sessionId,omitempty"`
	UserID       string        `json:"userId,omitempty"`
	UserName     string        `json:"userName,omitempty"`
	RFID         string        `json:"rfid,omitempty"`
	AllocationID int64         `json:"allocationId,omitempty"`
	SessionAge   time.Duration `json:"sessionAge,omitempty"`
	Anomaly      string        `json:"anomaly,omitempty"`
	IPAddr       string        `json:"ipAddr,omitempty"`
	UserAgent    string        `json:"userAgent,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Fields returns the entry as logrus fields.
func (e *AuditEntry) Fields() log.Fields {
	fields := log.Fields{
		"group":  e.Group,
		"action": e.Action,
	}
	if e.SessionID != "" {
		fields["session"] = e.SessionID
	}
	if e.UserID != "" {
		fields["user"] = e.UserID
	}
	if e.SessionAge != 0 {
		fields["session_age"] = e.SessionAge
	}
	if e.RFID != "" {
		fields["rfid"] = e.RFID
	}
	if e.AllocationID != 0 {
		fields["allocation"] = e.AllocationID
	}
	if e.IPAddr != "" {
		fields["ip_addr"] = e.IPAddr
	}
	if e.Anomaly != "" {
		fields["anomaly"] = e.Anomaly
	}
	return fields
}
