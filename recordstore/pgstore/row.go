package pgstore

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/xy-planning-network/synkro/recordstore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// row is a record as stored in the records table.
type row struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Table     string    `gorm:"column:table_name;type:text;not null;index"`
	Fields    []byte    `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (row) TableName() string { return "records" }

func (r row) record() (recordstore.Record, error) {
	fields := make(recordstore.Fields)
	if len(r.Fields) > 0 {
		if err := json.Unmarshal(r.Fields, &fields); err != nil {
			return recordstore.Record{}, err
		}
	}

	return recordstore.Record{ID: r.ID, CreatedTime: r.CreatedAt.UTC(), Fields: fields}, nil
}
