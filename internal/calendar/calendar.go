// Package calendar gera o arquivo .ics e o link do Google Agenda de uma consulta.
package calendar

import (
	"net/url"
	"strings"
	"time"

	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

const (
	DefaultDuration = time.Hour
	ContentType     = "text/calendar; charset=utf-8"

	stampLayout = "20060102T150405Z"
	prodID      = "-//Advoga//Agenda de Consultas//PT-BR"
)

type Event struct {
	UID         string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

func FromAppointment(ap *models.Appointment, pageName string) Event {
	title := "Consulta jurídica"
	if pageName != "" {
		title += " - " + pageName
	}

	var desc strings.Builder
	desc.WriteString("Cliente: " + ap.ClientName)
	if ap.CaseDescription != "" {
		desc.WriteString("\nCaso: " + ap.CaseDescription)
	}
	if ap.VideoCallLink != "" {
		desc.WriteString("\nVideochamada: " + ap.VideoCallLink)
	}

	return Event{
		UID:         ap.ID + "@advoga",
		Title:       title,
		Description: desc.String(),
		Location:    ap.VideoCallLink,
		Start:       ap.ScheduledAt,
		End:         ap.ScheduledAt.Add(DefaultDuration),
	}
}

// ICS monta o VCALENDAR com um único VEVENT (RFC 5545, linhas CRLF).
func ICS(ev Event, now time.Time) []byte {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + escape(ev.UID),
		"DTSTAMP:" + now.UTC().Format(stampLayout),
		"DTSTART:" + ev.Start.UTC().Format(stampLayout),
		"DTEND:" + ev.End.UTC().Format(stampLayout),
		"SUMMARY:" + escape(ev.Title),
	}
	if ev.Description != "" {
		lines = append(lines, "DESCRIPTION:"+escape(ev.Description))
	}
	if ev.Location != "" {
		lines = append(lines, "LOCATION:"+escape(ev.Location))
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")

	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func GoogleCalendarLink(ev Event) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", ev.Title)
	q.Set("dates", ev.Start.UTC().Format(stampLayout)+"/"+ev.End.UTC().Format(stampLayout))
	if ev.Description != "" {
		q.Set("details", ev.Description)
	}
	if ev.Location != "" {
		q.Set("location", ev.Location)
	}
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}

var icsEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func escape(s string) string {
	return icsEscaper.Replace(s)
}
