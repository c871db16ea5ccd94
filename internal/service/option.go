package service

import (
	"github.com/micro/go-micro/v2/broker"
	"github.com/ofte-auth/ponto/internal/model"
	"github.com/ofte-auth/ponto/internal/records"
)

// OptionRecords sets the records API client.
func OptionRecords(records records.Client) func(*Service) error {
	return func(svc *Service) error {
		svc.records = records
		return nil
	}
}

// OptionSession sets the kiosk session the service acts on.
func OptionSession(session *model.Session) func(*Service) error {
	return func(svc *Service) error {
		svc.session = session
		return nil
	}
}

// OptionParams sets a key,value option. Multiple can be set.
func OptionParams(params map[string]string) func(*Service) error {
	return func(svc *Service) error {
		svc.params = params
		return nil
	}
}

// OptionMessageBroker sets a broker client option.
func OptionMessageBroker(broker broker.Broker) func(*Service) error {
	return func(svc *Service) error {
		svc.broker = broker
		return nil
	}
}
