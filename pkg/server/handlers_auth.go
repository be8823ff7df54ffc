package server

import (
	"errors"
	"fmt"
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

const cookieMaxAge = int(auth.SessionLifetime / time.Second)

// login authenticates one of the three roles. Admins present a username
// and password; donors and hospitals are identified by contact string
// alone, a trust decision inherited from the system's security posture.
// All failures collapse into the same generic message.
func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	userType := c.PostForm("user_type")

	var sess *auth.Session

	switch userType {
	case auth.RoleAdmin:
		var admin models.Admin
		err := s.db.Where("username = ?", username).First(&admin).Error
		if err == nil && auth.CheckPassword(admin.PasswordHash, password) {
			sess = &auth.Session{UserID: admin.ID, Name: admin.Username, Role: auth.RoleAdmin}
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.dbError(c, err)
			return
		}
	case auth.RoleDonor:
		var donor models.Donor
		err := s.db.Where("contact = ?", username).First(&donor).Error
		if err == nil {
			sess = &auth.Session{UserID: donor.ID, Name: donor.Name, Role: auth.RoleDonor}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.dbError(c, err)
			return
		}
	case auth.RoleHospital:
		var hospital models.Hospital
		err := s.db.Where("contact = ?", username).First(&hospital).Error
		if err == nil {
			sess = &auth.Session{UserID: hospital.ID, Name: hospital.Name, Role: auth.RoleHospital}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.dbError(c, err)
			return
		}
	}

	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	token, err := auth.MintToken(s.cfg.SecretKey, *sess)
	if err != nil {
		s.log.Error("failed to mint session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Login failed"})
		return
	}

	c.SetCookie(auth.CookieName, token, cookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Login successful!",
		"role":     sess.Role,
		"redirect": "/dashboard_" + sess.Role,
	})
}

func (s *Server) logout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "You have been logged out"})
}

// registerDonor is the public donor self-registration. Age is validated
// against the configured range and the contact string must be unused; the
// unique index on contact is the authoritative check, the pre-read only
// provides the friendly message.
func (s *Server) registerDonor(c *gin.Context) {
	name := c.PostForm("name")
	gender := c.PostForm("gender")
	bloodGroup := c.PostForm("blood_group")
	contact := c.PostForm("contact")
	address := c.PostForm("address")

	age, err := strconv.Atoi(c.PostForm("age"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid age"})
		return
	}
	if age < s.cfg.MinDonorAge || age > s.cfg.MaxDonorAge {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("Age must be between %d and %d", s.cfg.MinDonorAge, s.cfg.MaxDonorAge),
		})
		return
	}
	if !inventory.ValidGroup(bloodGroup) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid blood group"})
		return
	}
	if name == "" || contact == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name and contact are required"})
		return
	}

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
		Name:             name,
		Age:              age,
		Gender:           gender,
		BloodGroup:       bloodGroup,
		Contact:          contact,
		Address:          address,
		IsActive:         true,
		RegistrationDate: time.Now(),
	}
	if err := s.db.Create(&donor).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Contact number already registered"})
			return
		}
		s.log.Error("donor registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Registration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Registration successful! You can now login."})
}

// dbError reports a database failure without leaking its details.
func (s *Server) dbError(c *gin.Context, err error) {
	s.log.Error("database error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
}
