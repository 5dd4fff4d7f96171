package models

// SequenceCounter is the per-(kind, year) monotone counter behind every
// human-readable number. The value only ever moves through the atomic
// upsert in services.NextSequence; it is never read-then-written.
type SequenceCounter struct {
	Kind  string `gorm:"size:20;primaryKey" json:"kind"`
	Year  int    `gorm:"primaryKey" json:"year"`
	Value int64  `gorm:"not null;default:0" json:"value"`
}

// TableName specifies the table name for SequenceCounter model
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}
