package model

import "time"

// Keyword is an input seed for article generation
type Keyword struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Term        string        `json:"term" gorm:"not null"`
	SeedKeyword string        `json:"seedKeyword" gorm:"column:seed_keyword;not null"`
	Intent      string        `json:"intent" gorm:"not null"`
	Status      KeywordStatus `json:"status" gorm:"not null;default:new"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"index"`
}

func (Keyword) TableName() string { return "keywords" }

type KeywordInput struct {
	Term        string `json:"term" validate:"required,max=200"`
	SeedKeyword string `json:"seedKeyword" validate:"max=200"`
	Intent      string `json:"intent" validate:"required,oneof=informational transactional"`
}

// SaveKeywordsRequest is the body of POST /api/keywords
type SaveKeywordsRequest struct {
	KeywordsList []KeywordInput `json:"keywordsList" validate:"required,min=1,dive"`
}

// Setting is a key/value pair editable from the admin settings page
type Setting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"uniqueIndex;not null"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Setting) TableName() string { return "settings" }

type UpdateSettingRequest struct {
	Value *string `json:"value" validate:"required"`
}
