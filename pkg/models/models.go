package models

import (
	"time"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
)

type Admin struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Donor struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:80;not null"`
	Age              int    `gorm:"not null"`
	Gender           string `gorm:"size:20"`
	BloodGroup       string `gorm:"size:5;not null"`
	Contact          string `gorm:"size:40;uniqueIndex;not null"`
	Address          string
	IsActive         bool `gorm:"not null;default:true"`
	RegistrationDate time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Hospital struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:80;not null"`
	Location         string
	Contact          string `gorm:"size:40;uniqueIndex;not null"`
	IsActive         bool   `gorm:"not null;default:true"`
	RegistrationDate time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Donation struct {
	ID         uint   `gorm:"primaryKey"`
	DonorID    uint   `gorm:"not null;index"`
	BloodGroup string `gorm:"size:5;not null"`
	Quantity   int    `gorm:"not null"`
	Date       time.Time
	Status     string `gorm:"size:20;not null;default:'Pending'"`
	AdminNotes string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Donor Donor `gorm:"foreignKey:DonorID"`
}

type Request struct {
	ID         uint   `gorm:"primaryKey"`
	HospitalID uint   `gorm:"not null;index"`
	BloodGroup string `gorm:"size:5;not null"`
	Quantity   int    `gorm:"not null"`
	Date       time.Time
	Status     string `gorm:"size:20;not null;default:'Pending'"`
	AdminNotes string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Hospital Hospital `gorm:"foreignKey:HospitalID"`
}

type BloodInventory struct {
	ID                uint   `gorm:"primaryKey"`
	BloodGroup        string `gorm:"size:5;uniqueIndex;not null"`
	AvailableQuantity int    `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
