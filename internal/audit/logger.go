package audit

import (
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ev Event) error {
	row := toRow(ev)
	return l.db.Create(&row).Error
}

// MemorySink guarda os eventos em memória (STORAGE=memory e testes).
type MemorySink struct {
	mu   sync.Mutex
	rows []models.AuditLog
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Log(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := toRow(ev)
	row.ID = uint(len(s.rows) + 1)
	row.CreatedAt = time.Now()
	s.rows = append(s.rows, row)
	return nil
}

func (s *MemorySink) Rows() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.AuditLog, len(s.rows))
	copy(out, s.rows)
	return out
}

func toRow(ev Event) models.AuditLog {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		PageID:   ev.PageID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		Metadata: metaJSON,
	}
	if ev.UserID != "" {
		uid := ev.UserID
		row.UserID = &uid
	}
	if ev.EntityID != "" {
		eid := ev.EntityID
		row.EntityID = &eid
	}
	return row
}
