package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doctor is an authenticated account owning all other records.
type Doctor struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Specialty    string             `bson:"specialty" json:"specialty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Patient belongs to exactly one doctor. (doctor, contactNumber) is unique,
// and (doctor, email) is unique when email is set.
type Patient struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName      string             `bson:"firstName" json:"firstName"`
	LastName       string             `bson:"lastName" json:"lastName"`
	DateOfBirth    time.Time          `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender         string             `bson:"gender" json:"gender"`
	ContactNumber  string             `bson:"contactNumber" json:"contactNumber"`
	Email          string             `bson:"email,omitempty" json:"email,omitempty"`
	Address        string             `bson:"address" json:"address"`
	MedicalHistory string             `bson:"medicalHistory,omitempty" json:"medicalHistory,omitempty"`
	Doctor         primitive.ObjectID `bson:"doctor" json:"doctor"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Medication is a single prescribed item recorded on a visit.
type Medication struct {
	Name      string `bson:"name" json:"name"`
	Dosage    string `bson:"dosage" json:"dosage"`
	Frequency string `bson:"frequency" json:"frequency"`
	Duration  string `bson:"duration" json:"duration"`
}

// Visit is a consultation record for a patient.
type Visit struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Patient               primitive.ObjectID `bson:"patient" json:"patient"`
	Doctor                primitive.ObjectID `bson:"doctor" json:"doctor"`
	VisitDate             time.Time          `bson:"visitDate" json:"visitDate"`
	Reason                string             `bson:"reason" json:"reason"`
	Diagnosis             string             `bson:"diagnosis,omitempty" json:"diagnosis,omitempty"`
	TreatmentNotes        string             `bson:"treatmentNotes,omitempty" json:"treatmentNotes,omitempty"`
	PrescribedMedications []Medication       `bson:"prescribedMedications,omitempty" json:"prescribedMedications,omitempty"`
	NextAppointment       *time.Time         `bson:"nextAppointment,omitempty" json:"nextAppointment,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Appointment statuses.
const (
	StatusScheduled   = "Scheduled"
	StatusCompleted   = "Completed"
	StatusCancelled   = "Cancelled"
	StatusRescheduled = "Rescheduled"
)

// Appointment is a scheduled slot for a patient with its owning doctor.
type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Patient   primitive.ObjectID `bson:"patient" json:"patient"`
	Doctor    primitive.ObjectID `bson:"doctor" json:"doctor"`
	StartTime time.Time          `bson:"startTime" json:"startTime"`
	EndTime   time.Time          `bson:"endTime" json:"endTime"`
	Reason    string             `bson:"reason" json:"reason"`
	Status    string             `bson:"status" json:"status"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Attachment is metadata for a file stored in object storage for a patient.
type Attachment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Patient     primitive.ObjectID `bson:"patient" json:"patient"`
	Doctor      primitive.ObjectID `bson:"doctor" json:"doctor"`
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	ObjectKey   string             `bson:"objectKey" json:"-"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
