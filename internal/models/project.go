package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	DueDate     *string   `json:"dueDate"` // YYYY-MM-DD
	IsActive    bool      `json:"isActive" gorm:"default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:ProjectID"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Task struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;index;not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	DueDate   *string   `json:"dueDate"`
	Completed bool      `json:"completed" gorm:"default:false"`

	AssigneeIDs datatypes.JSONSlice[string] `json:"assigneeIds"`

	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Project DTOs
type CreateProjectRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	DueDate     *string `json:"dueDate"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	DueDate     *string `json:"dueDate"`
}

type ProjectSummary struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Color          string    `json:"color"`
	DueDate        *string   `json:"dueDate"`
	TaskCount      int       `json:"taskCount"`
	CompletedCount int       `json:"completedCount"`
}

// Task DTOs
type CreateTaskRequest struct {
	Title       string   `json:"title" validate:"required"`
	DueDate     *string  `json:"dueDate"`
	AssigneeIDs []string `json:"assigneeIds"`
}

type UpdateTaskRequest struct {
	Title       *string   `json:"title"`
	DueDate     *string   `json:"dueDate"`
	Completed   *bool     `json:"completed"`
	AssigneeIDs *[]string `json:"assigneeIds"`
}
