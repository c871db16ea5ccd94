package service

import (
	"context"
	"strings"

	"github.com/ofte-auth/ponto/internal/model"
	"github.com/ofte-auth/ponto/internal/records"
	"github.com/ofte-auth/ponto/internal/util"
	"github.com/pkg/errors"
)

// Error constants, their text is shown to kiosk clients.
var (
	ErrRFIDNotRecognized    = errors.New("RFID não reconhecido")
	ErrAllocationIDRequired = errors.New("id_alocacao não fornecido")
	ErrAllocationIDInvalid  = errors.New("id_alocacao inválido")
)

// Identification is the outcome of resolving a card.
type Identification struct {
	SessionID   string              `json:"-"`
	User        *model.User         `json:"usuario"`
	Projects    []string            `json:"projetos"`
	Allocations []*model.Allocation `json:"-"`
}

// Kiosk defines the kiosk service interface.
type Kiosk interface {
	// Resolve looks a card up without touching the session.
	Resolve(context.Context, string) (*Identification, error)
	// Identify resolves a card and begins a session for its holder.
	Identify(context.Context, string) (*Identification, *APIError)
	// ProjectResources lists the session's allocations of a project.
	ProjectResources(context.Context, string) []*model.Allocation
	// RegisterAccess writes an access for an allocation. The session is kept.
	// Callers decide whether an id was supplied; negative ids are refused.
	RegisterAccess(context.Context, int64) (*model.AccessEvent, *APIError)
	// EndSession clears the session.
	EndSession(context.Context)
	Session() *model.Session

	Stop()
}

type kioskService struct {
	Service
}

// NewKioskService creates a new instance.
func NewKioskService(ctx context.Context, options ...func(*Service) error) (Kiosk, error) {
	service := &kioskService{
		Service: Service{
			name: "ponto-kiosk-service",
		},
	}
	for _, option := range options {
		err := option(&(service).Service)
		if err != nil {
			return nil, err
		}
	}
	if service.records == nil {
		return nil, errors.New("records member is nil")
	}
	if service.session == nil {
		service.session = model.NewSession()
	}
	return service, nil
}

func (s *kioskService) Stop() {
	s.Service.Stop()
}

func (s *kioskService) Session() *model.Session {
	return s.session
}

// Resolve scans every allocation row for the card; the first row in API order
// wins. Card ids are not filtered remotely.
func (s *kioskService) Resolve(ctx context.Context, rfid string) (*Identification, error) {
	rfid = strings.TrimSpace(rfid)
	if err := util.Validate.Var(rfid, "required"); err != nil {
		return nil, errors.Wrap(model.ErrRecordNotFound, "blank rfid")
	}
	all, err := s.records.Allocations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing allocations")
	}
	var holder *model.Allocation
	for _, a := range all {
		if a.RFID == rfid {
			holder = a
			break
		}
	}
	if holder == nil {
		return nil, errors.Wrapf(model.ErrRecordNotFound, "rfid %s", rfid)
	}
	projects, allocations, err := s.records.UserAllocations(ctx, holder.UserID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing allocations of user %s", holder.UserID)
	}
	return &Identification{
		User:        holder.User(),
		Projects:    projects,
		Allocations: allocations,
	}, nil
}

func (s *kioskService) Identify(ctx context.Context, rfid string) (*Identification, *APIError) {
	var (
		ident *Identification
		err   error
	)
	detail := "identifying card"
	entry := &model.AuditEntry{RFID: rfid}
	// Auditing
	defer func() {
		if ident != nil {
			entry.SessionID = ident.SessionID
			entry.UserID = ident.User.ID
			entry.UserName = ident.User.Name
		}
		go s.Audit(ctx, AuditGroupKiosk, AuditActionIdentify, entry, err)
	}()

	ident, err = s.Resolve(ctx, rfid)
	if err != nil {
		if errors.Cause(err) == model.ErrRecordNotFound {
			return nil, NewAPIError(404, ErrRFIDNotRecognized, detail)
		}
		return nil, remoteError(err, detail)
	}
	ident.SessionID, err = s.session.Begin(ident.User, ident.Projects, ident.Allocations)
	if err != nil {
		return nil, NewAPIError(500, errors.Wrap(err, "beginning session"), detail)
	}
	return ident, nil
}

func (s *kioskService) ProjectResources(ctx context.Context, project string) []*model.Allocation {
	return s.session.FilterByProject(project)
}

func (s *kioskService) RegisterAccess(ctx context.Context, allocationID int64) (*model.AccessEvent, *APIError) {
	var (
		event *model.AccessEvent
		err   error
	)
	detail := "registering access"
	entry := &model.AuditEntry{
		AllocationID: allocationID,
		SessionID:    s.session.ID(),
		UserID:       s.session.UserID(),
	}
	// Auditing
	defer func() {
		go s.Audit(ctx, AuditGroupKiosk, AuditActionRegisterAccess, entry, err)
	}()

	if err = util.Validate.Var(allocationID, "gte=0"); err != nil {
		err = ErrAllocationIDInvalid
		return nil, NewAPIError(400, err, detail)
	}
	event, err = s.records.RegisterAccess(ctx, allocationID)
	if err != nil {
		return nil, remoteError(err, detail)
	}
	return event, nil
}

func (s *kioskService) EndSession(ctx context.Context) {
	entry := &model.AuditEntry{
		SessionID:  s.session.ID(),
		UserID:     s.session.UserID(),
		SessionAge: s.session.Age(),
	}
	s.session.Clear()
	go s.Audit(ctx, AuditGroupKiosk, AuditActionEndSession, entry, nil)
}

// remoteError maps records API failures to a 502, anything else to a 500.
func remoteError(err error, detail string) *APIError {
	switch errors.Cause(err) {
	case records.ErrRemoteUnavailable, records.ErrRemoteFormat:
		return NewAPIError(502, err, detail)
	default:
		return NewAPIError(500, err, detail)
	}
}
