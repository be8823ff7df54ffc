package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bloodbank/pkg/auth"
	"bloodbank/pkg/inventory"
	"bloodbank/pkg/models"
)

func (s *Server) dashboardHospital(c *gin.Context) {
	sess, ok := s.requireRole(c, auth.RoleHospital)
	if !ok {
		return
	}

	var hospital models.Hospital
	if err := s.db.First(&hospital, sess.UserID).Error; err != nil {
		s.dbError(c, err)
		return
	}

	var requests []models.Request
	if err := s.db.Where("hospital_id = ?", sess.UserID).Order("date DESC").Find(&requests).Error; err != nil {
		s.dbError(c, err)
		return
	}
	history := make([]gin.H, len(requests))
	for i, r := range requests {
		history[i] = gin.H{
			"requestId":  r.ID,
			"bloodGroup": r.BloodGroup,
			"quantity":   r.Quantity,
			"date":       r.Date.Format("2006-01-02"),
			"status":     r.Status,
			"adminNotes": r.AdminNotes,
		}
	}

	stock, err := inventory.Availability(s.db)
	if err != nil {
		s.dbError(c, err)
		return
	}
	availability := make([]gin.H, len(stock))
	for i, row := range stock {
		availability[i] = gin.H{
			"bloodGroup":        row.BloodGroup,
			"availableQuantity": row.AvailableQuantity,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"hospital": gin.H{
			"name":             hospital.Name,
			"location":         hospital.Location,
			"contact":          hospital.Contact,
			"registrationDate": hospital.RegistrationDate.Format("2006-01-02"),
		},
		"requestHistory":    history,
		"bloodAvailability": availability,
	})
}

// addRequest records a new pending blood request for the logged-in hospital.
func (s *Server) addRequest(c *gin.Context) {
	sess, ok := s.requireRole(c, auth.RoleHospital)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil || quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid quantity"})
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

	request := models.Request{
		HospitalID: sess.UserID,
		BloodGroup: bloodGroup,
		Quantity:   quantity,
		Date:       date,
		Status:     models.StatusPending,
	}
	if err := s.db.Create(&request).Error; err != nil {
		s.log.Error("failed to submit request", zap.Uint("hospitalId", sess.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Blood request submitted successfully"})
}

// requestBlood shows current availability, with the donor groups each
// recipient group can accept.
func (s *Server) requestBlood(c *gin.Context) {
	if _, ok := s.requireRole(c, auth.RoleHospital); !ok {
		return
	}

	stock, err := inventory.Availability(s.db)
	if err != nil {
		s.dbError(c, err)
		return
	}
	availability := make([]gin.H, len(stock))
	for i, row := range stock {
		availability[i] = gin.H{
			"bloodGroup":        row.BloodGroup,
			"availableQuantity": row.AvailableQuantity,
			"compatibleDonors":  inventory.Compatibility[row.BloodGroup],
		}
	}

	c.JSON(http.StatusOK, gin.H{"bloodAvailability": availability})
}
