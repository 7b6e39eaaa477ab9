package model

import "time"

// Inconsistency is written when a saga's compensation failed and cloud resources may
// have leaked. Operators resolve them by hand.
type Inconsistency struct {
	Id          int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	SagaID      string    `json:"saga_id" gorm:"column:saga_id;size:32;index"`
	Saga        string    `json:"saga" gorm:"column:saga;size:32"`
	RentalName  string    `json:"rental_name" gorm:"column:rental_name;size:64;index"`
	Kind        string    `json:"kind" gorm:"column:kind;size:16"`
	NodeName    string    `json:"node_name" gorm:"column:node_name;size:64"`
	FailedStep  string    `json:"failed_step" gorm:"column:failed_step;size:64"`
	Cause       string    `json:"cause" gorm:"column:cause;type:text"`
	Compensated string    `json:"compensated" gorm:"column:compensated;type:text"` // comma separated step names
	Failures    string    `json:"failures" gorm:"column:failures;type:text"`       // one "step: error" per line
	Resolved    int8      `json:"resolved" gorm:"column:resolved;default:0;index"`
	CreateTime  time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime  time.Time `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
}

func (Inconsistency) TableName() string {
	return "inconsistency"
}
