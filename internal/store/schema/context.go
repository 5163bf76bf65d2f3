package schema

import (
	"gorm.io/datatypes"

	"github.com/feral-file/ff-paywall/internal/domain"
)

// Context is the read-only view of the host's contexts table
type Context struct {
	ID int64 `gorm:"column:id;primaryKey"`
	// ContextLevel is module or course
	ContextLevel domain.ContextLevel `gorm:"column:context_level;not null;type:varchar(16)"`
	// InstanceID is the course module id for module contexts and the course id otherwise
	InstanceID int64 `gorm:"column:instance_id;not null"`
	CourseID   int64 `gorm:"column:course_id;not null"`
}

// TableName specifies the table name for the Context model
func (Context) TableName() string {
	return "contexts"
}

// Course is the read-only view of the host's courses table
type Course struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	ShortName string `gorm:"column:shortname;not null;type:varchar(255)"`
	FullName  string `gorm:"column:fullname;not null;type:varchar(254)"`
}

// TableName specifies the table name for the Course model
func (Course) TableName() string {
	return "courses"
}

// CourseModule carries the availability tree of an activity
type CourseModule struct {
	ID           int64          `gorm:"column:id;primaryKey"`
	CourseID     int64          `gorm:"column:course_id;not null"`
	Availability datatypes.JSON `gorm:"column:availability;type:jsonb"`
}

// TableName specifies the table name for the CourseModule model
func (CourseModule) TableName() string {
	return "course_modules"
}

// CourseSection carries the availability tree of a course section
type CourseSection struct {
	ID           int64          `gorm:"column:id;primaryKey"`
	CourseID     int64          `gorm:"column:course_id;not null"`
	Section      int            `gorm:"column:section;not null;default:0"`
	Availability datatypes.JSON `gorm:"column:availability;type:jsonb"`
}

// TableName specifies the table name for the CourseSection model
func (CourseSection) TableName() string {
	return "course_sections"
}
