package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/micro/go-micro/v2/broker"
	"github.com/ofte-auth/ponto/internal/model"
	"github.com/ofte-auth/ponto/internal/records"
	log "github.com/sirupsen/logrus"
)

// Service represents a base structure for services.
type Service struct {
	name    string
	records records.Client
	session *model.Session
	broker  broker.Broker
	params  map[string]string
}

// Stop closes all open handles.
func (s Service) Stop() {
	if s.broker != nil {
		if err := s.broker.Disconnect(); err != nil {
			log.WithError(err).WithField("service", s.name).Warning("Disconnecting message broker")
		}
	}
}

// Audit logs a kiosk action and, if a message broker is configured,
// publishes it on `<prefix>.<group>.<action>`.
func (s Service) Audit(ctx context.Context, group, action string, entry *model.AuditEntry, auditError error) {
	if entry == nil {
		entry = &model.AuditEntry{}
	}
	entry.Group = group
	entry.Action = action
	entry.CreatedAt = time.Now()
	ipAddr, ok := ctx.Value(ContextIPAddr).(string)
	if ok {
		entry.IPAddr = ipAddr
	}
	userAgent, ok := ctx.Value(ContextUserAgent).(string)
	if ok {
		entry.UserAgent = userAgent
	}
	if auditError != nil {
		entry.Anomaly = auditError.Error()
	}

	logEntry := log.WithFields(entry.Fields()).WithField("service", s.name)
	if entry.Anomaly != "" {
		logEntry.Warning("Kiosk action failed")
	} else {
		logEntry.Info("Kiosk action")
	}

	if s.broker != nil {
		topic := fmt.Sprintf("%s.%s.%s", s.topicPrefix(), group, action)
		body, _ := json.Marshal(entry)
		message := &broker.Message{
			Header: map[string]string{"group": group, "action": action},
			Body:   body,
		}
		if err := s.broker.Publish(topic, message); err != nil {
			log.WithError(err).WithField("topic", topic).Error("Sending audit entry through message broker")
		}
	}
}

// topicPrefix is the `auditTopicPrefix` param, "ponto" when unset.
func (s Service) topicPrefix() string {
	if prefix := s.params["auditTopicPrefix"]; prefix != "" {
		return prefix
	}
	return "ponto"
}
