package model

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func Test_AuditEntryFields(t *testing.T) {
	tests := []struct {
		name  string
		entry *AuditEntry
		want  log.Fields
	}{
		{
			"bare",
			&AuditEntry{Group: "kiosk", Action: "endSession"},
			log.Fields{"group": "kiosk", "action": "endSession"},
		},
		{
			"identify anomaly",
			&AuditEntry{Group: "kiosk", Action: "identify", RFID: "NOPE", IPAddr: "10.0.0.5", Anomaly: "record not found"},
			log.Fields{"group": "kiosk", "action": "identify", "rfid": "NOPE", "ip_addr": "10.0.0.5", "anomaly": "record not found"},
		},
		{
			"access",
			&AuditEntry{Group: "kiosk", Action: "registerAccess", SessionID: "s1", UserID: "7", AllocationID: 42},
			log.Fields{"group": "kiosk", "action": "registerAccess", "session": "s1", "user": "7", "allocation": int64(42)},
		},
		{
			"end session",
			&AuditEntry{Group: "kiosk", Action: "endSession", SessionID: "s1", SessionAge: 90 * time.Second},
			log.Fields{"group": "kiosk", "action": "endSession", "session": "s1", "session_age": 90 * time.Second},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Fields())
		})
	}
}
