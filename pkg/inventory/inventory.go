package inventory

import (
	"errors"

	"gorm.io/gorm"

	"bloodbank/pkg/models"
)

// BloodGroups lists the eight ABO/Rh categories used as inventory keys.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// Compatibility maps a recipient blood group to the donor groups it can
// accept.
var Compatibility = map[string][]string{
	"A+":  {"A+", "A-", "O+", "O-"},
	"A-":  {"A-", "O-"},
	"B+":  {"B+", "B-", "O+", "O-"},
	"B-":  {"B-", "O-"},
	"AB+": {"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"},
	"AB-": {"A-", "B-", "AB-", "O-"},
	"O+":  {"O+", "O-"},
	"O-":  {"O-"},
}

func ValidGroup(group string) bool {
	for _, g := range BloodGroups {
		if g == group {
			return true
		}
	}
	return false
}

// Credit adds quantity to the available stock for a blood group, creating
// the row on first use. It runs against the caller's transaction so the
// adjustment commits or rolls back together with the status change that
// triggered it.
func Credit(tx *gorm.DB, group string, quantity int) error {
	var row models.BloodInventory
	err := tx.Where("blood_group = ?", group).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.BloodInventory{BloodGroup: group, AvailableQuantity: quantity}
		return tx.Create(&row).Error
	}
	if err != nil {
		return err
	}
	row.AvailableQuantity += quantity
	return tx.Save(&row).Error
}

// Debit subtracts quantity from the available stock for a blood group,
// floored at zero. A missing row is left as-is: there is nothing to
// subtract from.
func Debit(tx *gorm.DB, group string, quantity int) error {
	var row models.BloodInventory
	err := tx.Where("blood_group = ?", group).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	row.AvailableQuantity -= quantity
	if row.AvailableQuantity < 0 {
		row.AvailableQuantity = 0
	}
	return tx.Save(&row).Error
}

// Available returns the current stock for a blood group, zero when no row
// exists yet.
func Available(db *gorm.DB, group string) (int, error) {
	var row models.BloodInventory
	err := db.Where("blood_group = ?", group).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.AvailableQuantity, nil
}

// Availability returns all inventory rows ordered by blood group.
func Availability(db *gorm.DB) ([]models.BloodInventory, error) {
	var rows []models.BloodInventory
	err := db.Order("blood_group").Find(&rows).Error
	return rows, err
}
