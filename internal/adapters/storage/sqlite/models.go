package sqlite

// petRow es la fila de la tabla pets.
type petRow struct {
	ID               string `gorm:"primaryKey"`
	Position         int    `gorm:"not null"`
	Name             string
	Breed            string
	Age              int
	OwnerName        string
	ContactInfo      string
	RegistrationDate string // YYYY-MM-DD, vacío si no hay
}

func (petRow) TableName() string { return "pets" }

// appointmentRow es la fila de la tabla appointments.
type appointmentRow struct {
	ID          string `gorm:"primaryKey"`
	PetID       string `gorm:"index;not null"`
	Position    int    `gorm:"not null"`
	Type        string
	ScheduledAt string `gorm:"index"` // 2006-01-02 15:04, hora local
	Notes       string
	BucketSeq   int64 `gorm:"not null;default:0"` // orden de agenda dentro del bucket
}

func (appointmentRow) TableName() string { return "appointments" }
