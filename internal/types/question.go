package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is one analyzed exam question. Options and KnowledgePoints are
// stored as JSON arrays; TikzCode and RasterPNG hold the compiled diagram
// when GeometrySVG converted, in that order of preference.
type Question struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	User            *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	QuestionText    string         `gorm:"column:question_text;not null" json:"question_text"`
	Options         datatypes.JSON `gorm:"column:options;type:jsonb" json:"options,omitempty"`
	Answer          string         `gorm:"column:answer" json:"answer"`
	Explanation     string         `gorm:"column:explanation" json:"explanation,omitempty"`
	HasGeometry     bool           `gorm:"column:has_geometry;not null;default:false" json:"has_geometry"`
	GeometrySVG     string         `gorm:"column:geometry_svg" json:"geometry_svg,omitempty"`
	TikzCode        string         `gorm:"column:tikz_code" json:"tikz_code,omitempty"`
	RasterPNG       []byte         `gorm:"column:raster_png" json:"-"`
	KnowledgePoints datatypes.JSON `gorm:"column:knowledge_points;type:jsonb" json:"knowledge_points,omitempty"`
	Difficulty      string         `gorm:"column:difficulty;index" json:"difficulty,omitempty"`
	QuestionType    string         `gorm:"column:question_type;index" json:"question_type,omitempty"`
	Confidence      *float64       `gorm:"column:confidence" json:"confidence,omitempty"`
	ParseError      string         `gorm:"column:parse_error" json:"parse_error,omitempty"`
	SourceImageKey  string         `gorm:"column:source_image_key" json:"source_image_key,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Question) TableName() string {
	return "question"
}

// OptionList decodes the Options JSON column. A missing or malformed column
// yields nil.
func (q *Question) OptionList() []string {
	return decodeStringArray(q.Options)
}

// KnowledgePointList decodes the KnowledgePoints JSON column.
func (q *Question) KnowledgePointList() []string {
	return decodeStringArray(q.KnowledgePoints)
}

func decodeStringArray(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
