package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID fills a zero uuid before insert.
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error           { newID(&u.ID); return nil }
func (w *Workspace) BeforeCreate(tx *gorm.DB) error      { newID(&w.ID); return nil }
func (p *Project) BeforeCreate(tx *gorm.DB) error        { newID(&p.ID); return nil }
func (t *Task) BeforeCreate(tx *gorm.DB) error           { newID(&t.ID); return nil }
func (s *SubTask) BeforeCreate(tx *gorm.DB) error        { newID(&s.ID); return nil }
func (c *TaskComment) BeforeCreate(tx *gorm.DB) error    { newID(&c.ID); return nil }
func (a *TaskAttachment) BeforeCreate(tx *gorm.DB) error { newID(&a.ID); return nil }
func (r *DailyReport) BeforeCreate(tx *gorm.DB) error    { newID(&r.ID); return nil }

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserSettings{},
		&Workspace{},
		&WorkspaceMember{},
		&Project{},
		&ProjectMember{},
		&Task{},
		&TaskAssignment{},
		&SubTask{},
		&TaskComment{},
		&TaskAttachment{},
		&DailyReport{},
	}
}
