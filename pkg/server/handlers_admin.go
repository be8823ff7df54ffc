package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodbank/pkg/auth"
	"bloodbank/pkg/inventory"
	"bloodbank/pkg/models"
)

var (
	errAlreadyProcessed = errors.New("not found or already processed")
	errInsufficient     = errors.New("insufficient blood available")
)

func (s *Server) dashboardAdmin(c *gin.Context) {
	if _, ok := s.requireRole(c, auth.RoleAdmin); !ok {
		return
	}

	var totalDonors, totalHospitals, pendingRequests, pendingDonations int64
	if err := s.db.Model(&models.Donor{}).Where("is_active = ?", true).Count(&totalDonors).Error; err != nil {
		s.dbError(c, err)
		return
	}
	if err := s.db.Model(&models.Hospital{}).Where("is_active = ?", true).Count(&totalHospitals).Error; err != nil {
		s.dbError(c, err)
		return
	}
	if err := s.db.Model(&models.Request{}).Where("status = ?", models.StatusPending).Count(&pendingRequests).Error; err != nil {
		s.dbError(c, err)
		return
	}
	if err := s.db.Model(&models.Donation{}).Where("status = ?", models.StatusPending).Count(&pendingDonations).Error; err != nil {
		s.dbError(c, err)
		return
	}

	stock, err := inventory.Availability(s.db)
	if err != nil {
		s.dbError(c, err)
		return
	}
	inventoryItems := make([]gin.H, len(stock))
	for i, row := range stock {
		inventoryItems[i] = gin.H{
			"bloodGroup":        row.BloodGroup,
			"availableQuantity": row.AvailableQuantity,
		}
	}

	var recentRequests []models.Request
	if err := s.db.Preload("Hospital").Order("created_at DESC").Limit(10).Find(&recentRequests).Error; err != nil {
		s.dbError(c, err)
		return
	}
	requestItems := make([]gin.H, len(recentRequests))
	for i, r := range recentRequests {
		requestItems[i] = gin.H{
			"requestId":  r.ID,
			"hospital":   r.Hospital.Name,
			"bloodGroup": r.BloodGroup,
			"quantity":   r.Quantity,
			"date":       r.Date.Format("2006-01-02"),
			"status":     r.Status,
		}
	}

	var recentDonations []models.Donation
	if err := s.db.Preload("Donor").Order("created_at DESC").Limit(10).Find(&recentDonations).Error; err != nil {
		s.dbError(c, err)
		return
	}
	donationItems := make([]gin.H, len(recentDonations))
	for i, d := range recentDonations {
		donationItems[i] = gin.H{
			"donationId": d.ID,
			"donor":      d.Donor.Name,
			"bloodGroup": d.BloodGroup,
			"quantity":   d.Quantity,
			"date":       d.Date.Format("2006-01-02"),
			"status":     d.Status,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalDonors":      totalDonors,
		"totalHospitals":   totalHospitals,
		"pendingRequests":  pendingRequests,
		"pendingDonations": pendingDonations,
		"bloodInventory":   inventoryItems,
		"recentRequests":   requestItems,
		"recentDonations":  donationItems,
	})
}

// addDonor lets an admin register a donor on someone's behalf.
func (s *Server) addDonor(c *gin.Context) {
	if _, ok := s.requireRole(c, auth.RoleAdmin); !ok {
		return
	}

	age, err := strconv.Atoi(c.PostForm("age"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid age"})
		return
	}
	contact := c.PostForm("contact")

	var existing models.Donor
	err = s.db.Where("contact = ?", contact).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Contact number already registered"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.dbError(c, err)
		return
	}

	donor := models.Donor{
		Name:             c.PostForm("name"),
		Age:              age,
		Gender:           c.PostForm("gender"),
		BloodGroup:       c.PostForm("blood_group"),
		Contact:          contact,
		Address:          c.PostForm("address"),
		IsActive:         true,
		RegistrationDate: time.Now(),
	}
	if err := s.db.Create(&donor).Error; err != nil {
		s.log.Error("failed to add donor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add donor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Donor added successfully"})
}

// approveRequest flips a pending request to Approved and debits the
// inventory in one transaction; a failed debit rolls the approval back.
func (s *Server) approveRequest(c *gin.Context) {
	if _, ok := s.requireRole(c, auth.RoleAdmin); !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request id"})
		return
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var req models.Request
		if err := tx.Where("id = ? AND status = ?", id, models.StatusPending).First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errAlreadyProcessed
			}
			return err
		}

		available, err := inventory.Available(tx, req.BloodGroup)
		if err != nil {
			return err
		}
		if available < req.Quantity {
			return errInsufficient
		}

		if err := tx.Model(&req).Update("status", models.StatusApproved).Error; err != nil {
			return err
		}
		return inventory.Debit(tx, req.BloodGroup, req.Quantity)
	})

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Request approved and inventory updated"})
	case errors.Is(err, errAlreadyProcessed):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Request not found or already processed"})
	case errors.Is(err, errInsufficient):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Insufficient blood available"})
	default:
		s.log.Error("request approval failed", zap.Int("requestId", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error processing request"})
	}
}

// approveDonation flips a pending donation to Approved and credits the
// inventory in one transaction. Donations only add stock, so there is no
// sufficiency guard.
func (s *Server) approveDonation(c *gin.Context) {
	if _, ok := s.requireRole(c, auth.RoleAdmin); !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid donation id"})
		return
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var donation models.Donation
		if err := tx.Where("id = ? AND status = ?", id, models.StatusPending).First(&donation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errAlreadyProcessed
			}
			return err
		}

		if err := tx.Model(&donation).Update("status", models.StatusApproved).Error; err != nil {
			return err
		}
		return inventory.Credit(tx, donation.BloodGroup, donation.Quantity)
	})

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Donation approved and inventory updated"})
	case errors.Is(err, errAlreadyProcessed):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Donation not found or already processed"})
	default:
		s.log.Error("donation approval failed", zap.Int("donationId", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error processing donation"})
	}
}

func (s *Server) donorList(c *gin.Context) {
	if _, ok := s.requireRole(c, auth.RoleAdmin); !ok {
		return
	}

	var rows []struct {
		ID                uint
		Name              string
		Age               int
		Gender            string
		BloodGroup        string
		Contact           string
		Address           string
		RegistrationDate  time.Time
		TotalDonations    int64
		TotalBloodDonated int
	}
	err := s.db.Model(&models.Donor{}).
		Select("donors.id, donors.name, donors.age, donors.gender, donors.blood_group, donors.contact, donors.address, donors.registration_date, "+
			"COUNT(donations.id) AS total_donations, COALESCE(SUM(donations.quantity), 0) AS total_blood_donated").
		Joins("LEFT JOIN donations ON donations.donor_id = donors.id AND donations.status = ?", models.StatusApproved).
		Where("donors.is_active = ?", true).
		Group("donors.id").
		Order("donors.name").
		Scan(&rows).Error
	if err != nil {
		s.dbError(c, err)
		return
	}

	items := make([]gin.H, len(rows))
	for i, row := range rows {
		items[i] = gin.H{
			"donorId":           row.ID,
			"name":              row.Name,
			"age":               row.Age,
			"gender":            row.Gender,
			"bloodGroup":        row.BloodGroup,
			"contact":           row.Contact,
			"address":           row.Address,
			"registrationDate":  row.RegistrationDate.Format("2006-01-02"),
			"totalDonations":    row.TotalDonations,
			"totalBloodDonated": row.TotalBloodDonated,
		}
	}
	c.JSON(http.StatusOK, gin.H{"donors": items})
}
