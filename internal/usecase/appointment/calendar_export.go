package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/advoga-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/objectstore"
)

type CalendarFile struct {
	Filename           string `json:"filename"`
	Body               []byte `json:"-"`
	GoogleCalendarLink string `json:"google_calendar_link"`
	URL                string `json:"url,omitempty"`
}

// ExportCalendar gera o .ics de uma consulta para qualquer das partes.
type ExportCalendar struct {
	repo   domain.Repository
	access collaboration.Resolver
	store  objectstore.Store
	now    func() time.Time
}

func NewExportCalendar(
	repo domain.Repository,
	access collaboration.Resolver,
	store objectstore.Store,
) *ExportCalendar {
	return &ExportCalendar{
		repo:   repo,
		access: access,
		store:  store,
		now:    time.Now,
	}
}

func (uc *ExportCalendar) Build(
	ctx context.Context,
	actorID string,
	appointmentID string,
) (*CalendarFile, error) {

	ap, err := getAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := requireParty(ctx, uc.access, ap, actorID); err != nil {
		return nil, err
	}

	pageName := ""
	if page, err := uc.repo.GetPage(ctx, ap.PageID); err == nil {
		pageName = page.Name
	}

	ev := calendar.FromAppointment(ap, pageName)

	return &CalendarFile{
		Filename:           "consulta-" + ap.ID + ".ics",
		Body:               calendar.ICS(ev, uc.now()),
		GoogleCalendarLink: calendar.GoogleCalendarLink(ev),
	}, nil
}

// Upload grava o .ics no object store e devolve a URL de download.
func (uc *ExportCalendar) Upload(
	ctx context.Context,
	actorID string,
	appointmentID string,
) (*CalendarFile, error) {

	file, err := uc.Build(ctx, actorID, appointmentID)
	if err != nil {
		return nil, err
	}

	url, err := uc.store.Put(ctx, "calendar/"+file.Filename, file.Body, calendar.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload calendar file: %w", err)
	}
	file.URL = url

	return file, nil
}
