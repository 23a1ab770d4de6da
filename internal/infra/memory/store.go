// Package memory implementa os repositórios em memória (STORAGE=memory e testes).
// Os registros são guardados por valor e copiados na leitura.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/account"
	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/financial"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/page"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type Store struct {
	mu sync.RWMutex

	users          map[string]models.User
	pages          map[string]models.LawyerPage
	availability   map[string]map[int]models.PageAvailability
	appointments   map[string]models.Appointment
	entries        map[string]models.FinancialEntry
	collaborations map[string]models.Collaboration
	invites        map[string]models.CollaborationInvite
	clients        map[string]models.Client
}

func NewStore() *Store {
	return &Store{
		users:          map[string]models.User{},
		pages:          map[string]models.LawyerPage{},
		availability:   map[string]map[int]models.PageAvailability{},
		appointments:   map[string]models.Appointment{},
		entries:        map[string]models.FinancialEntry{},
		collaborations: map[string]models.Collaboration{},
		invites:        map[string]models.CollaborationInvite{},
		clients:        map[string]models.Client{},
	}
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email || existing.Code == u.Code {
			return httperr.ErrBusiness(account.ErrEmailTaken)
		}
	}
	stamp(&u.CreatedAt, &u.UpdatedAt)
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) FindUserByCode(_ context.Context, code string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Code, code) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --------------------------------------------------
// Pages
// --------------------------------------------------

func (s *Store) CreatePage(_ context.Context, p *models.LawyerPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.pages {
		if existing.Slug == p.Slug {
			return httperr.ErrBusiness(page.ErrSlugTaken)
		}
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	s.pages[p.ID] = *p
	return nil
}

func (s *Store) GetPage(_ context.Context, id string) (*models.LawyerPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (s *Store) GetPageBySlug(_ context.Context, slug string) (*models.LawyerPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.pages {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) ListPagesByOwner(_ context.Context, ownerID string) ([]models.LawyerPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.LawyerPage{}
	for _, p := range s.pages {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdatePage(_ context.Context, p *models.LawyerPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pages[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, existing := range s.pages {
		if existing.ID != p.ID && existing.Slug == p.Slug {
			return httperr.ErrBusiness(page.ErrSlugTaken)
		}
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	s.pages[p.ID] = *p
	return nil
}

func (s *Store) DeletePage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pages, id)
	delete(s.availability, id)
	for cid, c := range s.collaborations {
		if c.PageID == id {
			delete(s.collaborations, cid)
		}
	}
	for iid, inv := range s.invites {
		if inv.PageID == id {
			delete(s.invites, iid)
		}
	}
	return nil
}

func (s *Store) ListAvailability(_ context.Context, pageID string) ([]models.PageAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.PageAvailability{}
	for _, d := range s.availability[pageID] {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

func (s *Store) ReplaceAvailability(_ context.Context, pageID string, days []models.PageAvailability) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDay := make(map[int]models.PageAvailability, len(days))
	for _, d := range days {
		d.PageID = pageID
		stamp(&d.CreatedAt, &d.UpdatedAt)
		byDay[d.Weekday] = d
	}
	s.availability[pageID] = byDay
	return nil
}

func (s *Store) GetAvailability(_ context.Context, pageID string, weekday int) (*models.PageAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.availability[pageID][weekday]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (s *Store) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ap.Version == 0 {
		ap.Version = 1
	}
	stamp(&ap.CreatedAt, &ap.UpdatedAt)
	s.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) HasActiveAt(_ context.Context, pageID string, scheduledAt time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ap := range s.appointments {
		if ap.PageID == pageID && ap.ScheduledAt.Equal(scheduledAt) && domain.Status(ap.Status).Occupies() {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ap, ok := s.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &ap, nil
}

// updateVersioned deve ser chamado com s.mu travado.
func (s *Store) updateVersioned(ap *models.Appointment) error {
	current, ok := s.appointments[ap.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if current.Version != ap.Version {
		return httperr.ErrBusiness(domain.ErrConcurrentUpdate)
	}

	ap.Version++
	stamp(&ap.CreatedAt, &ap.UpdatedAt)
	s.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateVersioned(ap)
}

func (s *Store) MarkPaid(_ context.Context, ap *models.Appointment, income *models.FinancialEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if income != nil && income.AppointmentID != nil {
		for _, e := range s.entries {
			if e.AppointmentID != nil && *e.AppointmentID == *income.AppointmentID {
				return httperr.ErrBusiness(domain.ErrInvalidState)
			}
		}
	}

	if err := s.updateVersioned(ap); err != nil {
		return err
	}
	if income != nil {
		stamp(&income.CreatedAt, &income.UpdatedAt)
		s.entries[income.ID] = *income
	}
	return nil
}

func (s *Store) listAppointments(match func(models.Appointment) bool) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Appointment{}
	for _, ap := range s.appointments {
		if match(ap) {
			out = append(out, ap)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) ListByClient(_ context.Context, clientID string) ([]models.Appointment, error) {
	return s.listAppointments(func(ap models.Appointment) bool { return ap.ClientID == clientID }), nil
}

func (s *Store) ListByLawyer(_ context.Context, lawyerID string) ([]models.Appointment, error) {
	return s.listAppointments(func(ap models.Appointment) bool {
		return ap.LawyerID == lawyerID || (ap.AssignedLawyerID != nil && *ap.AssignedLawyerID == lawyerID)
	}), nil
}

func (s *Store) ListByPage(_ context.Context, pageID string) ([]models.Appointment, error) {
	return s.listAppointments(func(ap models.Appointment) bool { return ap.PageID == pageID }), nil
}

func (s *Store) ListForDay(_ context.Context, pageID string, start, end time.Time) ([]models.Appointment, error) {
	return s.listAppointments(func(ap models.Appointment) bool {
		return ap.PageID == pageID && !ap.ScheduledAt.Before(start) && ap.ScheduledAt.Before(end)
	}), nil
}

// --------------------------------------------------
// Clients
// --------------------------------------------------

func (s *Store) UpsertClient(_ context.Context, rec *models.Client) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.clients {
		if c.ProfessionalID == rec.ProfessionalID && c.Email == rec.Email {
			c.TotalAppointments += rec.TotalAppointments
			c.TotalSpent = c.TotalSpent.Add(rec.TotalSpent)
			c.LastAppointmentAt = rec.LastAppointmentAt
			c.Name = rec.Name
			if rec.Phone != "" {
				c.Phone = rec.Phone
			}
			stamp(&c.CreatedAt, &c.UpdatedAt)
			s.clients[id] = c
			return &c, nil
		}
	}

	c := *rec
	stamp(&c.CreatedAt, &c.UpdatedAt)
	s.clients[c.ID] = c
	return &c, nil
}

func (s *Store) ListClients(_ context.Context, professionalID, query string) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterClients(query, func(c models.Client) bool { return c.ProfessionalID == professionalID }), nil
}

func (s *Store) ListPageClients(_ context.Context, pageID, query string) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paid := map[string]struct{}{}
	for _, ap := range s.appointments {
		if ap.PageID == pageID && ap.PaidAt != nil {
			paid[ap.ResponsibleLawyerID()+"|"+strings.ToLower(strings.TrimSpace(ap.ClientEmail))] = struct{}{}
		}
	}

	return s.filterClients(query, func(c models.Client) bool {
		_, ok := paid[c.ProfessionalID+"|"+c.Email]
		return ok
	}), nil
}

func (s *Store) filterClients(query string, keep func(models.Client) bool) []models.Client {
	query = strings.ToLower(strings.TrimSpace(query))
	out := []models.Client{}
	for _, c := range s.clients {
		if !keep(c) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(c.Name), query) &&
			!strings.Contains(strings.ToLower(c.Email), query) &&
			!strings.Contains(c.Phone, query) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// --------------------------------------------------
// Financial
// --------------------------------------------------

func (s *Store) ListEntries(_ context.Context, f financial.EntryFilter) ([]models.FinancialEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.FinancialEntry{}
	for _, e := range s.entries {
		if f.ProfessionalID != "" && e.ProfessionalID != f.ProfessionalID {
			continue
		}
		if f.PageID != "" && (e.PageID == nil || *e.PageID != f.PageID) {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, nil
}

func (s *Store) GetEntry(_ context.Context, id string) (*models.FinancialEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (s *Store) CreateEntry(_ context.Context, e *models.FinancialEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&e.CreatedAt, &e.UpdatedAt)
	s.entries[e.ID] = *e
	return nil
}

func (s *Store) UpdateEntry(_ context.Context, e *models.FinancialEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[e.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stamp(&e.CreatedAt, &e.UpdatedAt)
	s.entries[e.ID] = *e
	return nil
}

// --------------------------------------------------
// Collaborations
// --------------------------------------------------

func (s *Store) FindCollaboration(_ context.Context, userID, pageID string) (*models.Collaboration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.collaborations {
		if c.UserID == userID && c.PageID == pageID {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) GetCollaboration(_ context.Context, id string) (*models.Collaboration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collaborations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (s *Store) listCollaborations(match func(models.Collaboration) bool) []models.Collaboration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Collaboration{}
	for _, c := range s.collaborations {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) ListCollaborators(_ context.Context, pageID string) ([]models.Collaboration, error) {
	return s.listCollaborations(func(c models.Collaboration) bool { return c.PageID == pageID }), nil
}

func (s *Store) ListUserCollaborations(_ context.Context, userID string) ([]models.Collaboration, error) {
	return s.listCollaborations(func(c models.Collaboration) bool { return c.UserID == userID }), nil
}

func (s *Store) UpdateCollaboration(_ context.Context, c *models.Collaboration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collaborations[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stamp(&c.CreatedAt, &c.UpdatedAt)
	s.collaborations[c.ID] = *c
	return nil
}

func (s *Store) DeleteCollaboration(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collaborations, id)
	return nil
}

// --------------------------------------------------
// Invites
// --------------------------------------------------

func (s *Store) CreateInvite(_ context.Context, inv *models.CollaborationInvite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&inv.CreatedAt, &inv.UpdatedAt)
	s.invites[inv.ID] = *inv
	return nil
}

func (s *Store) GetInvite(_ context.Context, id string) (*models.CollaborationInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invites[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &inv, nil
}

func (s *Store) HasPendingInvite(_ context.Context, pageID, targetUserID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, inv := range s.invites {
		if inv.PageID == pageID && inv.TargetUserID == targetUserID &&
			inv.Status == string(collaboration.InvitePending) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) listInvites(match func(models.CollaborationInvite) bool) []models.CollaborationInvite {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.CollaborationInvite{}
	for _, inv := range s.invites {
		if match(inv) {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) ListInvitesForUser(_ context.Context, userID string) ([]models.CollaborationInvite, error) {
	return s.listInvites(func(inv models.CollaborationInvite) bool { return inv.TargetUserID == userID }), nil
}

func (s *Store) ListInvitesByOwner(_ context.Context, ownerID string) ([]models.CollaborationInvite, error) {
	return s.listInvites(func(inv models.CollaborationInvite) bool { return inv.OwnerID == ownerID }), nil
}

func (s *Store) ListInvitesByPage(_ context.Context, pageID string) ([]models.CollaborationInvite, error) {
	return s.listInvites(func(inv models.CollaborationInvite) bool { return inv.PageID == pageID }), nil
}

func (s *Store) UpdateInvite(_ context.Context, inv *models.CollaborationInvite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invites[inv.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stamp(&inv.CreatedAt, &inv.UpdatedAt)
	s.invites[inv.ID] = *inv
	return nil
}

func (s *Store) DeleteInvite(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.invites, id)
	return nil
}

func (s *Store) AcceptInvite(_ context.Context, inv *models.CollaborationInvite, c *models.Collaboration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.collaborations {
		if existing.PageID == c.PageID && existing.UserID == c.UserID {
			return httperr.ErrBusiness(collaboration.ErrAlreadyCollaborator)
		}
	}
	if _, ok := s.invites[inv.ID]; !ok {
		return gorm.ErrRecordNotFound
	}

	stamp(&c.CreatedAt, &c.UpdatedAt)
	stamp(&inv.CreatedAt, &inv.UpdatedAt)
	s.collaborations[c.ID] = *c
	s.invites[inv.ID] = *inv
	return nil
}

// Compile-time check
var (
	_ account.Repository       = (*Store)(nil)
	_ page.Repository          = (*Store)(nil)
	_ domain.Repository        = (*Store)(nil)
	_ financial.Repository     = (*Store)(nil)
	_ collaboration.Repository = (*Store)(nil)
)
