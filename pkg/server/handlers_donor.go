package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bloodbank/pkg/auth"
	"bloodbank/pkg/inventory"
	"bloodbank/pkg/models"
)

func (s *Server) dashboardDonor(c *gin.Context) {
	sess, ok := s.requireRole(c, auth.RoleDonor)
	if !ok {
		return
	}

	var donor models.Donor
	if err := s.db.First(&donor, sess.UserID).Error; err != nil {
		s.dbError(c, err)
		return
	}

	var donations []models.Donation
	if err := s.db.Where("donor_id = ?", sess.UserID).Order("date DESC").Find(&donations).Error; err != nil {
		s.dbError(c, err)
		return
	}
	history := make([]gin.H, len(donations))
	for i, d := range donations {
		history[i] = gin.H{
			"donationId": d.ID,
			"bloodGroup": d.BloodGroup,
			"quantity":   d.Quantity,
			"date":       d.Date.Format("2006-01-02"),
			"status":     d.Status,
			"adminNotes": d.AdminNotes,
		}
	}

	var stats struct {
		TotalDonations int64
		TotalBlood     int
	}
	err := s.db.Model(&models.Donation{}).
		Select("COUNT(*) AS total_donations, COALESCE(SUM(quantity), 0) AS total_blood").
		Where("donor_id = ? AND status = ?", sess.UserID, models.StatusApproved).
		Scan(&stats).Error
	if err != nil {
		s.dbError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"donor": gin.H{
			"name":             donor.Name,
			"bloodGroup":       donor.BloodGroup,
			"contact":          donor.Contact,
			"address":          donor.Address,
			"registrationDate": donor.RegistrationDate.Format("2006-01-02"),
		},
		"donationHistory": history,
		"stats": gin.H{
			"totalDonations": stats.TotalDonations,
			"totalBlood":     stats.TotalBlood,
		},
	})
}

// addDonation records a new pending donation for the logged-in donor.
func (s *Server) addDonation(c *gin.Context) {
	sess, ok := s.requireRole(c, auth.RoleDonor)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil || quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid quantity"})
		return
	}
	if quantity > s.cfg.MaxDonationQuantity {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("Donation quantity cannot exceed %d ml", s.cfg.MaxDonationQuantity),
		})
		return
	}

	bloodGroup := c.PostForm("blood_group")
	if !inventory.ValidGroup(bloodGroup) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid blood group"})
		return
	}

	date, err := time.Parse("2006-01-02", c.PostForm("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	donation := models.Donation{
		DonorID:    sess.UserID,
		BloodGroup: bloodGroup,
		Quantity:   quantity,
		Date:       date,
		Status:     models.StatusPending,
		AdminNotes: c.PostForm("notes"),
	}
	if err := s.db.Create(&donation).Error; err != nil {
		s.log.Error("failed to schedule donation", zap.Uint("donorId", sess.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to schedule donation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Donation scheduled successfully"})
}
